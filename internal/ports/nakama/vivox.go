package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"gotcha/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// vivoxService is built lazily from runtime env config. Tests inject
// their own instance.
var vivoxService *app.VivoxService

// RpcGetVivoxToken signs a Vivox access token for the calling user.
// Payload: {"action": "login" | "join", "channel_name": "..."}. Join
// tokens name the voice channel, which for match audio is the match ID.
func RpcGetVivoxToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("No user ID in context", 16) // UNAUTHENTICATED
	}

	var req struct {
		Action      string `json:"action"`
		ChannelName string `json:"channel_name"`
	}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
		}
	}
	if req.Action == "" {
		req.Action = app.VivoxTokenActionLogin
	}

	service := vivoxService
	if service == nil {
		env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
		service = app.NewVivoxService(env["vivox_secret"], env["vivox_issuer"], env["vivox_domain"])
		vivoxService = service
	}

	token, err := service.GenerateToken(userID, req.Action, req.ChannelName)
	if err != nil {
		logger.Error("Failed to generate Vivox token for %s: %v", userID, err)
		return "", runtime.NewError("Failed to generate token", 3)
	}

	res := map[string]string{"token": token}
	resBytes, _ := json.Marshal(res)
	return string(resBytes), nil
}
