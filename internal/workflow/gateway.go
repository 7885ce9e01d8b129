package workflow

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/selection"
	"github.com/desertthunder/festify/internal/services"
	"github.com/desertthunder/festify/internal/shared"
)

// Gateway builds playlist requests from a cart and submits them.
type Gateway struct {
	creator services.PlaylistCreator
	logger  *log.Logger
}

// NewGateway creates a Gateway. A nil logger discards output.
func NewGateway(creator services.PlaylistCreator, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Gateway{creator: creator, logger: logger}
}

// BuildRequest resolves every enabled entry of cart into a request named name.
//
// It fails with [shared.ErrNothingSelected] or [shared.ErrEmptyPlaylistName] when the request cannot be sent.
func (g *Gateway) BuildRequest(cart *selection.Cart, name string) (models.PlaylistRequest, error) {
	req := models.PlaylistRequest{
		Name:       strings.TrimSpace(name),
		TrackCount: cart.Fallback(),
	}
	for _, e := range cart.Enabled() {
		req.Entries = append(req.Entries, models.RequestEntry{
			Artist:     e.Artist.Ref(),
			TrackCount: cart.Resolve(e.Key()),
		})
	}

	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

// Submit sends req once. Any failure is reported as [shared.ErrSubmitFailed].
func (g *Gateway) Submit(ctx context.Context, req models.PlaylistRequest) (*models.PlaylistResult, error) {
	g.logger.Info("creating playlist", "name", req.Name, "artists", len(req.Entries), "fallback", req.TrackCount)

	res, err := g.creator.CreatePlaylist(ctx, req)
	if err != nil {
		g.logger.Error("playlist creation failed", "name", req.Name, "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrSubmitFailed, err)
	}

	g.logger.Info("playlist created", "name", res.Name, "url", res.URL, "tracks", res.TrackCount)
	return res, nil
}
