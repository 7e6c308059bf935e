package jolt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/example/shiftcall/internal/internaltypes"
)

const (
	emailSelector    = `input[id*="email"]`
	passwordSelector = `input[id*="pass"]`
	sideMenuSelector = `[id*="side-menu"]`
	jsonSelector     = `pre`

	defaultWaitTimeout = 30 * time.Second
	restoreProbe       = 10 * time.Second
)

type Credentials struct {
	Email    string
	Password string
}

type SessionConfig struct {
	BaseURL     string
	Credentials Credentials
	// WaitTimeout bounds each page readiness wait.
	WaitTimeout time.Duration
	Headless    bool
	// Jar is optional; without it every fetch logs in again.
	Jar *CookieJar
}

// Session drives a headless Chrome through the Jolt login and reads JSON
// endpoints as an authenticated user.
type Session struct {
	cfg SessionConfig
	log *zap.Logger
}

func NewSession(cfg SessionConfig, log *zap.Logger) *Session {
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = defaultWaitTimeout
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{cfg: cfg, log: log}
}

// Fetch logs in (or resumes a cached session) and returns the body of rawURL
// as rendered by the browser.
func (s *Session) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	bctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(s.log.Sugar().Debugf))
	defer cancel()

	// start the browser outside of any per-step timeout
	if err := chromedp.Run(bctx); err != nil {
		return nil, transportError("start browser", err)
	}

	if err := s.authenticate(bctx); err != nil {
		return nil, err
	}

	var content string
	err := s.runWithin(bctx, s.cfg.WaitTimeout,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady(jsonSelector, chromedp.ByQuery),
		chromedp.Text(jsonSelector, &content, chromedp.ByQuery),
	)
	if err != nil {
		return nil, transportError("read schedule", err)
	}
	s.log.Debug("fetched schedule payload", zap.Int("bytes", len(content)))
	return []byte(content), nil
}

func (s *Session) authenticate(ctx context.Context) error {
	if s.restore(ctx) {
		s.log.Info("resumed cached jolt session")
		return nil
	}
	if err := s.login(ctx); err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

func (s *Session) restore(ctx context.Context) bool {
	if s.cfg.Jar == nil {
		return false
	}
	cookies, err := s.cfg.Jar.Load()
	if err != nil {
		if !errors.Is(err, internaltypes.ErrNotFound) {
			s.log.Warn("ignoring unreadable session cache", zap.String("path", s.cfg.Jar.Path()), zap.Error(err))
		}
		return false
	}
	err = s.runWithin(ctx, restoreProbe,
		network.SetCookies(cookieParams(cookies)),
		chromedp.Navigate(s.cfg.BaseURL),
		chromedp.WaitVisible(sideMenuSelector, chromedp.ByQuery),
	)
	if err != nil {
		s.log.Info("cached jolt session rejected, logging in", zap.Error(err))
		return false
	}
	return true
}

func (s *Session) login(ctx context.Context) error {
	creds := s.cfg.Credentials
	if creds.Email == "" || creds.Password == "" {
		return fmt.Errorf("%w: jolt credentials are not configured", internaltypes.ErrTransport)
	}
	s.log.Info("logging in to jolt", zap.String("email", creds.Email))

	err := s.runWithin(ctx, s.cfg.WaitTimeout,
		chromedp.Navigate(s.cfg.BaseURL),
		chromedp.WaitVisible(emailSelector, chromedp.ByQuery),
		chromedp.Clear(emailSelector, chromedp.ByQuery),
		chromedp.SendKeys(emailSelector, creds.Email, chromedp.ByQuery),
	)
	if err != nil {
		return transportError("email field", err)
	}
	err = s.runWithin(ctx, s.cfg.WaitTimeout,
		chromedp.WaitVisible(passwordSelector, chromedp.ByQuery),
		chromedp.Clear(passwordSelector, chromedp.ByQuery),
		chromedp.SendKeys(passwordSelector, creds.Password+kb.Enter, chromedp.ByQuery),
	)
	if err != nil {
		return transportError("password field", err)
	}
	if err := s.runWithin(ctx, s.cfg.WaitTimeout, chromedp.WaitVisible(sideMenuSelector, chromedp.ByQuery)); err != nil {
		return transportError("wait for dashboard", err)
	}
	return nil
}

func (s *Session) persist(ctx context.Context) {
	if s.cfg.Jar == nil {
		return
	}
	var cookies []*network.Cookie
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		s.log.Warn("could not read browser cookies", zap.Error(err))
		return
	}
	if err := s.cfg.Jar.Save(fromBrowserCookies(cookies)); err != nil {
		s.log.Warn("could not save session cache", zap.String("path", s.cfg.Jar.Path()), zap.Error(err))
		return
	}
	s.log.Debug("saved session cache", zap.Int("cookies", len(cookies)))
}

func (s *Session) runWithin(ctx context.Context, d time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func cookieParams(cookies []Cookie) []*network.CookieParam {
	out := make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		})
	}
	return out
}

func fromBrowserCookies(cookies []*network.Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c == nil {
			continue
		}
		out = append(out, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		})
	}
	return out
}

func transportError(stage string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", internaltypes.ErrTransportTimeout, stage, err)
	}
	return fmt.Errorf("%w: %s: %v", internaltypes.ErrTransport, stage, err)
}
