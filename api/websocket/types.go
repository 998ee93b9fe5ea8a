package websocket

type ConnectParams struct {
	Token string `form:"token" binding:"required"` // jwt token; browsers cannot set headers on websocket upgrades
}
