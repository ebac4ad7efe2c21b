package stayfinder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vedant5125/stayfinder-go/internal/transport"
)

func TestWishlistService_Add(t *testing.T) {
	client, mockTransport, _ := newTestClient()

	mockTransport.On("Execute", mock.Anything, mock.MatchedBy(func(call *transport.Call) bool {
		body, ok := call.Body.(map[string]string)
		return ok &&
			call.Method == "POST" &&
			call.Path == "/users/addToWishlist" &&
			body["listingId"] == "l1"
	}), mock.Anything).Return(nil, nil)

	require.NoError(t, client.Wishlist.Add(context.Background(), "l1"))
	mockTransport.AssertExpectations(t)
}

func TestWishlistService_Remove(t *testing.T) {
	client, mockTransport, _ := newTestClient()

	mockTransport.On("Execute", mock.Anything, mock.MatchedBy(func(call *transport.Call) bool {
		body, ok := call.Body.(map[string]string)
		return ok &&
			call.Path == "/users/removeFromWishList" &&
			body["listingId"] == "l1"
	}), mock.Anything).Return(nil, nil)

	require.NoError(t, client.Wishlist.Remove(context.Background(), "l1"))
	mockTransport.AssertExpectations(t)
}

func TestWishlistService_List(t *testing.T) {
	client, mockTransport, _ := newTestClient()

	mockTransport.On("Execute", mock.Anything, mock.MatchedBy(func(call *transport.Call) bool {
		return call.Method == "POST" && call.Path == "/users/showWishList"
	}), mock.Anything).Return(`[{"_id": "l1", "title": "Sea cabin"}]`, nil)

	listings, err := client.Wishlist.List(context.Background())

	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "l1", listings[0].ID)
	mockTransport.AssertExpectations(t)
}

func TestWishlistService_EmptyID(t *testing.T) {
	client, _, _ := newTestClient()

	var validationErr *ValidationError
	assert.ErrorAs(t, client.Wishlist.Add(context.Background(), ""), &validationErr)
	assert.ErrorAs(t, client.Wishlist.Remove(context.Background(), ""), &validationErr)
}
