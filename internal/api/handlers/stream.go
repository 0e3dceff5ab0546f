package handlers

import (
	"bin-dispatch-service/internal/domain"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type ReportSubscriber interface {
	Subscribe() chan domain.CycleReport
	Unsubscribe(ch chan domain.CycleReport)
}

// StreamHandler pushes cycle reports to websocket clients: the latest report on
// connect, then every report the dispatcher publishes.
type StreamHandler struct {
	Reports  ReportSource
	Broker   ReportSubscriber
	Upgrader websocket.Upgrader
}

func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		log.Printf("stream upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch := h.Broker.Subscribe()
	defer h.Broker.Unsubscribe(ch)

	closed := make(chan struct{})
	go readPump(conn, closed)

	if report, ok := h.Reports.Latest(); ok {
		if err := writeReport(conn, report); err != nil {
			return
		}
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case report, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			if err := writeReport(conn, report); err != nil {
				log.Printf("stream write failed: cycle_id=%s err=%v", report.CycleID, err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so control messages are processed, and
// signals closed once the peer goes away.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeReport(conn *websocket.Conn, report domain.CycleReport) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(report)
}
