package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/chatdj/internal/server"
	"github.com/desertthunder/chatdj/internal/services"
	"github.com/desertthunder/chatdj/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the browser authorization flow and prints the captured code.
//
// The code is single-use and short-lived; it is meant to be fed straight into
// `chatdj create --code`.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	client, err := r.newClient()
	if err != nil {
		return err
	}

	code, err := r.captureAuthCode(ctx, client)
	if err != nil {
		return err
	}

	r.writePlainln("✓ Authorization code captured")
	r.writePlain("Code: %s\n\n", code)
	r.writePlainln("Use it within a few minutes:")
	r.writePlain("  chatdj create chat.txt --name \"My Mix\" --code %s\n", code)

	return nil
}

// captureAuthCode starts the local callback server, opens the browser at the
// authorization URL, and waits for the redirect to deliver a code.
func (r *Runner) captureAuthCode(ctx context.Context, client *services.Client) (string, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return "", err
	}

	codeHandler := server.NewCodeHandler(state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(codeHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	authURL := client.AuthURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.CodeResult

	select {
	case result = <-codeHandler.Result():
	case err := <-serverErrors:
		return "", fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return "", fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Code == "" {
		return "", fmt.Errorf("no authorization code received")
	}

	return result.Code, nil
}
