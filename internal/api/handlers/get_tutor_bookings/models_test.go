package get_tutor_bookings

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	oct26 := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)

	req, err := ToServiceRequest(7, 7, url.Values{"date": {"2026-10-26"}, "status": {"pending"}})
	require.NoError(t, err)
	assert.Equal(t, oct26, *req.StartDate)
	assert.Equal(t, oct26, *req.EndDate)
	assert.Equal(t, "pending", *req.Status)
	assert.False(t, req.IncludeInactive)

	req, err = ToServiceRequest(7, 7, url.Values{"from": {"2026-10-26"}, "includeInactive": {"true"}})
	require.NoError(t, err)
	assert.Equal(t, oct26, *req.StartDate)
	assert.Nil(t, req.EndDate)
	assert.True(t, req.IncludeInactive)

	for _, bad := range []url.Values{
		{"date": {"2026-10-26"}, "to": {"2026-10-30"}},
		{"from": {"yesterday"}},
		{"includeInactive": {"maybe"}},
	} {
		_, err := ToServiceRequest(7, 7, bad)
		assert.Error(t, err, bad.Encode())
	}
}
