package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminViewParam(t *testing.T) {
	assert.False(t, adminViewParam(url.Values{}))
	assert.False(t, adminViewParam(url.Values{"adminUI": {"false"}}))
	assert.False(t, adminViewParam(url.Values{"adminUI": {"banana"}}))
	assert.True(t, adminViewParam(url.Values{"adminUI": {"true"}}))
}
