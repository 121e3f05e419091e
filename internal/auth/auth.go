// Package auth keeps the basic-auth credentials used against the list
// service.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	credFileName = "credentials.json"
	PasswordEnv  = "LISTE_PASSWORD"
	UsernameEnv  = "LISTE_USERNAME"
)

var ErrEmptyPassword = errors.New("empty password")

type Credentials struct {
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Source    string    `json:"source"`     // "env" | "file"
	CreatedAt time.Time `json:"created_at"` // when we saved to file
}

func credsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".liste"), nil
}

func Path() (string, error) {
	dir, err := credsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// Get returns the stored credentials, nil when there are none. LISTE_PASSWORD
// overrides the file.
func Get() (*Credentials, error) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		return &Credentials{Username: strings.TrimSpace(os.Getenv(UsernameEnv)), Password: pw, Source: "env"}, nil
	}

	p, err := Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	c.Source = "file"
	return &c, nil
}

func Save(username, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	dir, err := credsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	c := Credentials{
		Username:  strings.TrimSpace(username),
		Password:  password,
		Source:    "file",
		CreatedAt: time.Now(),
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	p, _ := Path()
	// owner-only
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func Delete() error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Resolve fills in whichever of username and password is empty from the
// stored credentials.
func Resolve(username, password string) (string, string, error) {
	if password != "" && username != "" {
		return username, password, nil
	}
	c, err := Get()
	if err != nil || c == nil {
		return username, password, err
	}
	if username == "" {
		username = c.Username
	}
	if password == "" {
		password = c.Password
	}
	return username, password, nil
}
