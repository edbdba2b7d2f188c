package messaging

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/tenzies/internal/services/messaging Service

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetGameStartedMessage returns a message for a freshly dealt game
	GetGameStartedMessage(ctx context.Context, input *GetGameStartedMessageInput) (*GetGameStartedMessageOutput, error)

	// GetRollResultMessage returns flavour text for a roll based on progress
	GetRollResultMessage(ctx context.Context, input *GetRollResultMessageInput) (*GetRollResultMessageOutput, error)

	// GetWinMessage returns the celebration shown when a player gets Tenzies
	GetWinMessage(ctx context.Context, input *GetWinMessageInput) (*GetWinMessageOutput, error)

	// GetErrorMessage returns a user-friendly error message
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
