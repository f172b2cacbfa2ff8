package cart

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/drinkshop/drinkshop-backend/api/responses"
	cartsvc "github.com/drinkshop/drinkshop-backend/internal/cart"
	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
	"github.com/drinkshop/drinkshop-backend/pkg/logger"
)

const (
	// StreamEvent names the server-sent event carrying a cart snapshot.
	StreamEvent      = "cart"
	defaultHeartbeat = 15 * time.Second
)

// CartStream pushes the cart over server-sent events: the current contents first, then
// one event per committed change. Comment lines keep idle proxies from closing the
// connection.
func CartStream(svc cartsvc.Service, heartbeat time.Duration, logg *logger.Logger) http.HandlerFunc {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg)
			return
		}

		ctx := r.Context()
		updates, err := svc.ObserveAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		header := w.Header()
		header.Set("Content-Type", "text/event-stream")
		header.Set("Cache-Control", "no-cache")
		header.Set("Connection", "keep-alive")
		header.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		rc := http.NewResponseController(w)
		if err := rc.Flush(); err != nil {
			if logg != nil {
				logg.Error(ctx, "cart.stream.flush_unsupported", err)
			}
			return
		}

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		var seq int64
		for {
			select {
			case <-ctx.Done():
				return
			case rows, ok := <-updates:
				if !ok {
					return
				}
				seq++
				if err := writeSnapshot(w, seq, rows); err != nil {
					if logg != nil {
						logg.Warn(logg.WithField(ctx, "error", err.Error()), "cart.stream.write_failed")
					}
					return
				}
			case <-ticker.C:
				if _, err := io.WriteString(w, ": heartbeat\n\n"); err != nil {
					return
				}
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeSnapshot(w io.Writer, seq int64, rows []models.Drink) error {
	data, err := json.Marshal(newDrinkResponses(rows))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", seq, StreamEvent, data)
	return err
}
