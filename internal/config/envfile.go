package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"babelbox/internal/apperr"

	"github.com/joho/godotenv"
)

var ErrEnvFileMissing = errors.New("env file does not exist")

var envKeyRe = regexp.MustCompile(`^[A-Z0-9_]+$`)

// EnvFile is a key/value settings store backed by a dotenv file.
// Rewrites normalize the file: comments and ordering are not preserved.
type EnvFile struct {
	Path string

	mu sync.Mutex
}

func (f *EnvFile) All() (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *EnvFile) Get(key string) (string, bool, error) {
	all, err := f.All()
	if err != nil {
		return "", false, err
	}
	v, ok := all[key]
	return v, ok, nil
}

func (f *EnvFile) Set(key, value string) error {
	_, err := f.SetMany(map[string]string{key: value})
	return err
}

// SetMany writes all pairs in one rewrite and returns the keys that already
// existed in the file.
func (f *EnvFile) SetMany(pairs map[string]string) ([]string, error) {
	for k := range pairs {
		if err := ValidateKey(k); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	env, err := f.read()
	if err != nil && !errors.Is(err, ErrEnvFileMissing) {
		return nil, err
	}
	if env == nil {
		env = map[string]string{}
	}

	var updated []string
	for k, v := range pairs {
		if _, ok := env[k]; ok {
			updated = append(updated, k)
		}
		env[k] = v
	}
	sort.Strings(updated)

	if err := godotenv.Write(env, f.Path); err != nil {
		return nil, fmt.Errorf("writing %s: %w", f.Path, err)
	}
	return updated, nil
}

func (f *EnvFile) read() (map[string]string, error) {
	env, err := godotenv.Read(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEnvFileMissing
		}
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return env, nil
}

func ValidateKey(key string) error {
	if !envKeyRe.MatchString(key) {
		return apperr.Invalid("key", fmt.Sprintf("invalid key %q: must match ^[A-Z0-9_]+$", key))
	}
	return nil
}

// Mask hides all but the last four characters of values whose key looks secret.
func Mask(key, value string) string {
	k := strings.ToUpper(key)
	if !strings.Contains(k, "KEY") && !strings.Contains(k, "SECRET") &&
		!strings.Contains(k, "PASSWORD") && !strings.Contains(k, "TOKEN") {
		return value
	}
	r := []rune(value)
	if len(r) <= 4 {
		return "***"
	}
	return "***" + string(r[len(r)-4:])
}
