package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/hobot-roadmap/internal/config"
)

// HashCost は PASSWORD_HASH 生成に使う bcrypt のコストです。
const HashCost = 10

type HashCmd struct {
	Password string `arg:"" optional:"" help:"password to hash (read from stdin when omitted)"`
}

func (h *HashCmd) Run() error {
	password := h.Password
	if password == "" {
		var err error
		if password, err = readPassword(os.Stdin); err != nil {
			return err
		}
	}

	line, err := hashLine(password)
	if err != nil {
		return err
	}
	fmt.Println("# .env.local に以下を追加してください")
	fmt.Println(line)
	return nil
}

// hashLine は .env.local にそのまま貼り付けられる行を返します。
// シングルクォートで囲むと godotenv は $ を展開しません。
func hashLine(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return fmt.Sprintf("PASSWORD_HASH='%s'", hash), nil
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type CheckPasswordCmd struct {
	Password string `arg:"" help:"password to verify"`
}

func (c *CheckPasswordCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ok, err := checkPassword(cfg.PasswordHash, c.Password)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("password does not match PASSWORD_HASH")
	}
	fmt.Println("password matches PASSWORD_HASH")
	return nil
}

func checkPassword(hash, password string) (bool, error) {
	if hash == "" {
		return false, errors.New("PASSWORD_HASH is not set")
	}
	if !config.LooksLikeBcrypt(hash) {
		return false, fmt.Errorf("PASSWORD_HASH does not look like a bcrypt hash (prefix %q)", hash[:min(4, len(hash))])
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to compare password: %w", err)
	}
}
