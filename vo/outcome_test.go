package vo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureError(t *testing.T) {
	f := NewFailure(Reference{
		Target:   "https://example.test/gone",
		Label:    "gone",
		Document: "index.html",
		Kind:     ElementKindHyperlink,
	}, Outcome{Reason: ReasonRemoteGone, StatusCode: 410})
	assert.Equal(t, "index.html: remote url gone 'https://example.test/gone' (gone) status code: 410", f.Error())
	assert.True(t, errors.Is(f, ErrRemoteGone))
	assert.False(t, errors.Is(f, ErrLocalNotFound))
}

func TestScanReportErr(t *testing.T) {
	r := NewScanReport("public")
	assert.NoError(t, r.Err())
	r.Failures = []Failure{
		{Document: "b.html", Target: "x.png", Label: "img src", Reason: ReasonLocalNotFound},
		{Document: "a.html", Target: "#nope", Label: "a href", Reason: ReasonFragmentNotFound},
	}
	r.Sort()
	assert.Equal(t, "a.html", r.Failures[0].Document)
	err := r.Err()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocalNotFound))
	assert.True(t, errors.Is(err, ErrFragmentNotFound))
	assert.False(t, errors.Is(err, ErrRemoteGone))
	var broken *BrokenReferencesError
	assert.True(t, errors.As(err, &broken))
	assert.Len(t, broken.Failures, 2)
	assert.Contains(t, err.Error(), "2 broken references")
}

func TestBucketCount(t *testing.T) {
	checks := []RemoteCheck{{Duration: 0}, {Duration: 150e6}, {Duration: 20e9}}
	counts := 0
	for _, b := range GetBucketList() {
		counts += b.Count(checks)
	}
	assert.Equal(t, len(checks), counts)
}
