// Package mailcheck implements the mail checker (§4.9 overview / §7
// UnreachableEmailAddress): mailto: references either are excluded
// outright or get a real SMTP reachability probe
package mailcheck

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"ricochet/internal/core/status"
	"ricochet/internal/core/uri"
	perr "ricochet/internal/platform/errors"
)

// Config tunes whether mail addresses are probed at all, and how
type Config struct {
	Enabled    bool
	HeloDomain string
	Timeout    time.Duration
}

// Checker probes mailto: addresses over SMTP without sending mail
type Checker struct {
	cfg Config
}

// New builds a Checker
func New(cfg Config) *Checker {
	if cfg.HeloDomain == "" {
		cfg.HeloDomain = "localhost"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Checker{cfg: cfg}
}

// Check returns Excluded when mail verification is disabled; otherwise
// it resolves the address's MX records and attempts an SMTP handshake
// through RCPT TO, never issuing DATA, so no mail is actually sent
func (c *Checker) Check(ctx context.Context, u uri.URI) status.Status {
	if !c.cfg.Enabled {
		return status.Excluded()
	}

	addr := u.Address()
	at := strings.LastIndexByte(addr, '@')
	if at < 0 || at == len(addr)-1 {
		return status.Errorf(perr.ErrorCodeUnreachableEmailAddress, "malformed address: "+addr)
	}
	domain := addr[at+1:]

	mxHost, err := lookupMX(domain)
	if err != nil {
		return status.Errorf(perr.ErrorCodeUnreachableEmailAddress, "no mail exchanger for "+domain)
	}

	if err := probe(ctx, mxHost, c.cfg.HeloDomain, addr, c.cfg.Timeout); err != nil {
		return status.Errorf(perr.ErrorCodeUnreachableEmailAddress, err.Error())
	}
	return status.Ok(250)
}

func lookupMX(domain string) (string, error) {
	mxs, err := net.LookupMX(domain)
	if err != nil || len(mxs) == 0 {
		return "", fmt.Errorf("mx lookup failed for %s: %w", domain, err)
	}
	return strings.TrimSuffix(mxs[0].Host, "."), nil
}

// probe opens a connection to the mail exchanger, greets it, declares a
// sender, and asks whether it would accept mail for addr — then quits
// without sending DATA
func probe(ctx context.Context, mxHost, heloDomain, addr string, timeout time.Duration) error {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", net.JoinHostPort(mxHost, "25"))
	if err != nil {
		return fmt.Errorf("connect to %s: %w", mxHost, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	client, err := smtp.NewClient(conn, mxHost)
	if err != nil {
		return fmt.Errorf("smtp handshake with %s: %w", mxHost, err)
	}
	defer client.Close()

	if err := client.Hello(heloDomain); err != nil {
		return fmt.Errorf("HELO rejected by %s: %w", mxHost, err)
	}
	if err := client.Mail("verify@" + heloDomain); err != nil {
		return fmt.Errorf("MAIL FROM rejected by %s: %w", mxHost, err)
	}
	if err := client.Rcpt(addr); err != nil {
		return fmt.Errorf("RCPT TO rejected for %s: %w", addr, err)
	}
	_ = client.Quit()
	return nil
}
