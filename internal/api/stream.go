package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamComments pushes every comment created on post :id over a websocket
// until the client goes away.
func (h *Handler) StreamComments(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		renderError(c, err)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	comments, err := h.Storage.SubscribeToComments(ctx, postID)
	if err != nil {
		renderError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered the client
		log.Warn().Err(err).Int64("post_id", postID).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	// reads only to notice the client closing
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	log.Debug().Int64("post_id", postID).Msg("Comment stream opened")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Int64("post_id", postID).Msg("Comment stream closed")
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case comment, ok := <-comments:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(h.element(commentRoot, comment)); err != nil {
				log.Warn().Err(err).Int64("post_id", postID).Msg("Comment stream write failed")
				return
			}
		}
	}
}
