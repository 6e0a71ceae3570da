package ports

import websocketdto "fixmate/internal/request-service/core/domain/websocket_dto"

type INotifyWebsocket interface {
	WriteToUser(userID string, event websocketdto.Event)
}
