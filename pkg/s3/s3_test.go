package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeyFromS3Url(t *testing.T) {
	assert.Equal(t, "uploads/1_a.jpg", extractKeyFromS3Url("https://bucket.s3.ap-southeast-1.amazonaws.com/uploads/1_a.jpg"))
	assert.Equal(t, "uploads/1_a.jpg", extractKeyFromS3Url("uploads/1_a.jpg"))
}
