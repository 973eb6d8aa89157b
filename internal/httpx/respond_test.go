package httpx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gpoffer/group-offers/internal/offers"
	"github.com/gpoffer/group-offers/internal/orders"
	"github.com/gpoffer/group-offers/internal/users"
	"github.com/gpoffer/group-offers/internal/wallet"
)

func TestErrStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{offers.ErrNotFound, http.StatusNotFound},
		{orders.ErrNotFound, http.StatusNotFound},
		{users.ErrNotFound, http.StatusNotFound},
		{wallet.ErrDetailsNotFound, http.StatusNotFound},
		{offers.ErrAlreadyJoined, http.StatusConflict},
		{users.ErrAlreadyExists, http.StatusConflict},
		{offers.ErrNotActive, http.StatusUnprocessableEntity},
		{wallet.ErrInsufficientPoints, http.StatusUnprocessableEntity},
		{users.ErrInvalidCredentials, http.StatusUnauthorized},
		{users.ErrInactive, http.StatusUnauthorized},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, errStatus(tt.err), tt.err.Error())
	}
}

func TestErrStatusWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("join offer 7"), offers.ErrAlreadyJoined)
	require.Equal(t, http.StatusConflict, errStatus(wrapped))
}
