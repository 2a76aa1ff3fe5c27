package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/flexfit/gymctl/internal/routes"
	"github.com/flexfit/gymctl/internal/session"
)

// TokenCmd inspects and manages the stored session token.
type TokenCmd struct {
	Show    TokenShowCmd    `cmd:"" default:"1" help:"Show the stored session"`
	Resolve TokenResolveCmd `cmd:"" help:"Resolve a token from a page URL"`
	Rewrite TokenRewriteCmd `cmd:"" help:"Rewrite a navigation URL to carry the session token"`
}

type TokenShowCmd struct {
	Raw bool `help:"Print the raw access token"`
}

func (t *TokenShowCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	sess, err := e.store.Get()
	if err != nil {
		return friendly(err)
	}

	if t.Raw {
		fmt.Println(sess.AccessToken)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if sess.User != nil {
		fmt.Fprintf(w, "User:\t%s (%s)\n", sess.User.Email, sess.User.Role)
	}
	if exp, err := session.ExpiresAt(sess.AccessToken); err == nil {
		state := "valid"
		if time.Now().After(exp) {
			state = "EXPIRED"
		}
		fmt.Fprintf(w, "Access token:\t%s, expires %s\n", state, exp.Format(time.RFC3339))
	} else {
		fmt.Fprintf(w, "Access token:\tno readable expiry\n")
	}
	fmt.Fprintf(w, "Refresh token:\t%t\n", sess.RefreshToken != "")
	return w.Flush()
}

// TokenResolveCmd runs the page-load token resolution against a URL, the way
// an authenticated view would on load: a token parameter in the URL wins and
// is persisted, then the URL is printed back with the token stripped.
type TokenResolveCmd struct {
	URL string `arg:"" help:"Page URL, possibly carrying a token parameter"`
}

func (t *TokenResolveCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	pageURL, err := url.Parse(t.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	resolver := session.NewResolver(e.store, e.client.Mirror())
	res, err := resolver.Resolve(pageURL)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return errors.New("no usable token, redirect to login")
		}
		return err
	}

	if res.FromURL {
		fmt.Println("Token adopted from URL and persisted.")
	} else {
		fmt.Println("Token resolved from stored session.")
	}
	fmt.Printf("Clean URL: %s\n", res.PageURL)
	return nil
}

// TokenRewriteCmd runs a navigation target through the guard, printing the
// URL a link click would actually land on: the token parameter is appended
// only when nothing else can carry the session to the destination view.
type TokenRewriteCmd struct {
	URL string `arg:"" help:"Navigation target URL"`
}

func (t *TokenRewriteCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	target, err := url.Parse(t.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	guard := routes.NewGuard(e.store, e.client.Mirror(), e.client.BaseURL())
	fmt.Println(guard.Rewrite(target))
	return nil
}
