package dto

type SessionHandle struct {
	SessionID string `json:"sessionId"`
	Version   uint64 `json:"version"`
}

type StopSessionInput struct {
	Version uint64 `json:"version"`
}
