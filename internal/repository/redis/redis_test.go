package redis

import (
	"agriVest/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobCodec(t *testing.T) {
	job := domain.MailJob{
		ID:       "job-1",
		Attempts: 2,
		Mail: domain.Mail{
			Subject: "Welcome to Agricvest",
			Body:    "Hi ada",
			From:    "no-reply@agrivest.test",
			To:      []string{"ada@farm.test"},
		},
	}

	raw, err := encodeJob(job)
	require.NoError(t, err)

	got, err := decodeJob(raw)
	require.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestDecodeJobGarbage(t *testing.T) {
	_, err := decodeJob("{not json")
	assert.Error(t, err)
}
