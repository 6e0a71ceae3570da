package ws

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"fixmate/internal/mylogger"
	websocketdto "fixmate/internal/request-service/core/domain/websocket_dto"

	"github.com/golang-jwt/jwt"
	"github.com/gorilla/websocket"
)

var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ClientList is a map used to help manage a map of clients
type ClientList map[*Client]bool

// Dispatcher fans request status updates out to connected requesters.
type Dispatcher struct {
	clients ClientList
	sync.RWMutex
	ctx       context.Context
	log       mylogger.Logger
	jwtSecret string
}

// NewDispatcher takes the application context, not a request context:
// connections outlive the upgrade handler, and net/http cancels the request
// context the moment the handler returns.
func NewDispatcher(ctx context.Context, log mylogger.Logger, jwtSecret string) *Dispatcher {
	return &Dispatcher{
		clients:   make(ClientList),
		ctx:       ctx,
		log:       log,
		jwtSecret: jwtSecret,
	}
}

// WsHandler upgrades GET /ws/users/{user_id}. The bearer token (query param
// `token` or Authorization header) must belong to that same identity.
func (d *Dispatcher) WsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("WsHandler")

		userID := r.PathValue("user_id")
		if userID == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if id, err := d.identityFromToken(r); err != nil || id != userID {
			log.Warn("websocket auth rejected", "user-id", userID)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(d.ctx, conn, d, userID)
		d.AddClient(client)
		go client.ReadMessage()
		go client.WriteMessage()
	}
}

func (d *Dispatcher) identityFromToken(r *http.Request) (string, error) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		tokenString = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(d.jwtSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrSignatureInvalid
	}

	id, _ := claims["identity_id"].(string)
	return id, nil
}

func (d *Dispatcher) AddClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	d.clients[client] = true
}

func (d *Dispatcher) RemoveClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.clients[client]; ok {
		client.conn.Close()
		delete(d.clients, client)
	}
}

// WriteToUser queues an event for every open connection of the given
// identity; slow consumers are dropped rather than blocking the caller.
func (d *Dispatcher) WriteToUser(userID string, event websocketdto.Event) {
	d.RLock()
	defer d.RUnlock()

	for client := range d.clients {
		if client.userID != userID {
			continue
		}
		select {
		case client.egress <- event:
		default:
			d.log.Warn("dropping status update, slow websocket consumer", "user-id", userID)
		}
	}
}
