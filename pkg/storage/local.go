package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	downloadAudience   = "resume-download"
	defaultDownloadTTL = 15 * time.Minute
)

var ErrInvalidDownloadToken = errors.New("storage: invalid or expired download token")

// LocalStorage keeps resumes under a directory on disk. It is meant for
// development. URLs carry a short-lived signed token, the local counterpart
// of an S3 presigned GET, and ServeHTTP only serves files with a valid one.
type LocalStorage struct {
	root       string
	baseURL    string
	signingKey []byte
}

func NewLocalStorage(root, baseURL string, signingKey []byte) (*LocalStorage, error) {
	if root == "" {
		return nil, errors.New("storage: local directory not configured")
	}
	if len(signingKey) == 0 {
		return nil, errors.New("storage: signing key not configured")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", root, err)
	}
	return &LocalStorage{root: root, baseURL: strings.TrimRight(baseURL, "/"), signingKey: signingKey}, nil
}

func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("storage: mkdir for %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", key, err)
	}
	return key, nil
}

// Delete ignores files that are already gone.
func (s *LocalStorage) Delete(_ context.Context, ref string) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", ref, err)
	}
	return nil
}

// URL returns a download link for ref that stops working after ttl.
func (s *LocalStorage) URL(_ context.Context, ref string, ttl time.Duration) (string, error) {
	if _, err := s.path(ref); err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = defaultDownloadTTL
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   ref,
		Audience:  jwt.ClaimStrings{downloadAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("storage: sign download token: %w", err)
	}
	return s.baseURL + "/" + ref + "?token=" + url.QueryEscape(token), nil
}

// verifyDownload checks that token was issued by URL for exactly ref.
func (s *LocalStorage) verifyDownload(ref, token string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(downloadAudience),
		jwt.WithSubject(ref),
	)
	if err != nil || claims.ExpiresAt == nil {
		return ErrInvalidDownloadToken
	}
	return nil
}

// ServeHTTP serves a stored file for a request path of "/<ref>?token=...".
// Mount it with http.StripPrefix at the path of baseURL.
func (s *LocalStorage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimPrefix(r.URL.Path, "/")
	if err := s.verifyDownload(ref, r.URL.Query().Get("token")); err != nil {
		http.Error(w, "invalid or expired download link", http.StatusForbidden)
		return
	}

	path, err := s.path(ref)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filepath.Base(path)))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// path resolves a key inside root, rejecting anything that escapes it.
func (s *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}
