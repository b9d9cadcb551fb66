// Package web serves the verification landing page work.ink redirects
// requesters to, plus a health endpoint.
package web

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ruthless-bot/ruthless/internal/domain/claims"
)

const shutdownTimeout = 5 * time.Second

type ClaimLookup interface {
	Pending(requester snowflake.ID) (claims.Claim, bool)
	Count() int
}

type DeliveryCounter interface {
	Len() int
}

type Server struct {
	app     *fiber.App
	addr    string
	claims  ClaimLookup
	ledger  DeliveryCounter
	botName string
}

func NewServer(addr, botName string, lookup ClaimLookup, ledger DeliveryCounter) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           10 * time.Second,
			WriteTimeout:          10 * time.Second,
		}),
		addr:    addr,
		claims:  lookup,
		ledger:  ledger,
		botName: botName,
	}

	s.app.Use(recover.New())
	s.app.Use(requestLogger())
	s.app.Get("/healthz", s.health)
	s.app.Get("/delivery/:user/:id", deliveryLimiter(), s.delivery)
	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens until ctx is cancelled, then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Web server listening",
			slog.String("type", "sys"),
			slog.String("addr", s.addr))
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":            "ok",
		"pending_claims":    s.claims.Count(),
		"recent_deliveries": s.ledger.Len(),
	})
}

func (s *Server) delivery(c *fiber.Ctx) error {
	userID, err := snowflake.Parse(c.Params("user"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}
	linkID := c.Params("id")

	claim, ok := s.claims.Pending(userID)
	if ok && claim.LinkID == linkID && claim.State == claims.StateAwaitingVerification {
		return c.JSON(fiber.Map{
			"status":  "pending",
			"module":  claim.Module,
			"message": "Task completed. " + s.botName + " will DM your account shortly.",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "processed",
		"message": "No pending claim for this link. Check your DMs from " + s.botName + ".",
	})
}
