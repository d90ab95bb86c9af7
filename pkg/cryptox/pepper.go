package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// The pepper is a server-wide secret appended to every password before
// hashing. It lives in a file next to the database and is generated on first
// start; losing it invalidates every stored password hash.
var (
	pepperMu   sync.Mutex
	pepper     string
	pepperFile string
)

// SetPepperPath selects the pepper file. Any pepper loaded from a previous
// path is forgotten.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	pepperFile = file
	pepper = ""
}

// LoadPepper reads or creates the pepper file now. Call it at startup so a
// broken path fails the boot instead of the first login.
func LoadPepper() error {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	_, err := loadPepperLocked()
	return err
}

// GetPepper returns the pepper, loading it on first use. It panics when the
// pepper file cannot be read or created; LoadPepper surfaces that error
// earlier.
func GetPepper() string {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	p, err := loadPepperLocked()
	if err != nil {
		panic(err)
	}
	return p
}

func loadPepperLocked() (string, error) {
	if pepper != "" {
		return pepper, nil
	}
	if pepperFile == "" {
		return "", errors.New("cryptox: pepper path not set")
	}

	p, err := loadOrGeneratePepper(filepath.Clean(pepperFile))
	if err != nil {
		return "", fmt.Errorf("cryptox: pepper %s: %w", pepperFile, err)
	}
	pepper = p
	return pepper, nil
}

func loadOrGeneratePepper(path string) (string, error) {
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		p := strings.TrimSpace(string(raw))
		if p == "" {
			return "", errors.New("file is empty")
		}
		return p, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}

	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(buf)

	// O_EXCL: a pepper written first by another process wins.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return loadOrGeneratePepper(path)
	}
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(p); err != nil {
		_ = f.Close()
		return "", err
	}
	return p, f.Close()
}
