package jolt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/example/shiftcall/internal/internaltypes"
)

const cookieJarName = "jolt_session"

// Cookie is the subset of a browser cookie needed to resume a session.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain"`
	Path     string `json:"path"`
	Secure   bool   `json:"secure"`
	HTTPOnly bool   `json:"httpOnly"`
}

// CookieJar keeps session cookies on disk, signed and encrypted.
type CookieJar struct {
	path string
	sc   *securecookie.SecureCookie
}

func NewCookieJar(path string, hashKey, blockKey []byte, maxAge time.Duration) *CookieJar {
	sc := securecookie.New(hashKey, blockKey)
	sc.SetSerializer(securecookie.JSONEncoder{})
	// a logged-in jar is well over the 4096 byte browser limit
	sc.MaxLength(0)
	sc.MaxAge(int(maxAge.Seconds()))
	return &CookieJar{path: path, sc: sc}
}

func (j *CookieJar) Path() string { return j.path }

// Load returns internaltypes.ErrNotFound when nothing has been saved yet.
func (j *CookieJar) Load() ([]Cookie, error) {
	b, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, internaltypes.ErrNotFound
		}
		return nil, err
	}
	var cookies []Cookie
	if err := j.sc.Decode(cookieJarName, strings.TrimSpace(string(b)), &cookies); err != nil {
		return nil, fmt.Errorf("decode session cache: %w", err)
	}
	return cookies, nil
}

func (j *CookieJar) Save(cookies []Cookie) error {
	encoded, err := j.sc.Encode(cookieJarName, cookies)
	if err != nil {
		return fmt.Errorf("encode session cache: %w", err)
	}
	if dir := filepath.Dir(j.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(j.path, []byte(encoded), 0o600)
}

// Clear removes the cache file. A missing file is not an error.
func (j *CookieJar) Clear() error {
	if err := os.Remove(j.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
