package handler

import (
	"google.golang.org/grpc/status"

	"github.com/dtroode/postboard-server/internal/apperrors"
)

// handleError converts err to a gRPC status using the code carried by the
// APIError. Unknown errors become codes.Internal without leaking details.
func handleError(err error) error {
	apiErr := apperrors.From(err)
	return status.Error(apiErr.GRPCCode, apiErr.Message)
}
