package services

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/latestcomment/go-negotiation-game/internal/broker"
	"github.com/latestcomment/go-negotiation-game/internal/metrics"
	"github.com/latestcomment/go-negotiation-game/internal/models"
)

const writeTimeout = 10 * time.Second

// RelayService connects websocket participants to the broker. It forwards
// frames verbatim and knows nothing about the game.
type RelayService struct {
	Manager *models.ChannelManager
	Broker  broker.Broker
	Metrics *metrics.Metrics
}

func NewRelayService(manager *models.ChannelManager, b broker.Broker, m *metrics.Metrics) *RelayService {
	return &RelayService{Manager: manager, Broker: b, Metrics: m}
}

// AddClient registers c in its session channel and starts forwarding the
// session's frames to it. The returned func undoes both and returns only once
// no write to c.Conn is in progress, so it must run before the handler that
// owns the connection returns.
func (s *RelayService) AddClient(c *models.Client) func() {
	ch := s.Manager.GetOrCreate(c.Session)
	ch.Mu.Lock()
	ch.Clients[c.Id] = c
	ch.ClientCount++
	count := ch.ClientCount
	ch.Mu.Unlock()

	unsubscribe := s.Broker.Subscribe(c.Session, func(f broker.Frame) {
		if f.Sender == c.Id {
			return
		}
		_ = c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.Conn.WriteMessage(websocket.TextMessage, f.Data); err != nil {
			log.Debugf("relay: write to %s in %s: %v", c.Id, c.Session, err)
		}
	})
	s.Metrics.ConnectionOpened()
	log.Infof("relay: %s joined %s as %s (%d connected)", c.Id, c.Session, c.Role, count)

	return func() {
		unsubscribe()
		s.RemoveClient(ch, c)
	}
}

func (s *RelayService) RemoveClient(ch *models.Channel, c *models.Client) {
	ch.Mu.Lock()
	delete(ch.Clients, c.Id)
	ch.ClientCount--
	count := ch.ClientCount
	ch.Mu.Unlock()

	s.Manager.Drop(ch.Session)
	s.Metrics.ConnectionClosed()
	log.Infof("relay: %s left %s (%d connected)", c.Id, c.Session, count)
}

// LoopMessages reads frames from conn until it closes and publishes each one
// to the client's session.
func (s *RelayService) LoopMessages(conn *websocket.Conn, client *models.Client) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		if !json.Valid(data) {
			s.Metrics.RecordFrame("malformed")
			log.Debugf("relay: dropped non-JSON frame from %s", client.Id)
			continue
		}

		if !client.CanSend() {
			s.Metrics.RecordFrame("readonly")
			log.Debugf("relay: dropped frame from read-only %s", client.Id)
			continue
		}

		s.Broker.Publish(client.Session, broker.Frame{
			Sender: client.Id,
			Role:   client.Role,
			Data:   data,
		})
		s.Metrics.RecordFrame("relayed")
	}
}
