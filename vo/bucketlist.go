package vo

import "time"

type Bucket struct {
	Name string
	From time.Duration
	To   time.Duration
}

type BucketList []Bucket

// GetBucketList remote round trip buckets, the last one ends at the request timeout
func GetBucketList() BucketList {
	return BucketList{
		Bucket{
			Name: "instant",
			From: 0,
			To:   time.Millisecond * 100,
		},
		Bucket{
			Name: "fast",
			From: time.Millisecond * 100,
			To:   time.Millisecond * 300,
		},
		Bucket{
			Name: "ok",
			From: time.Millisecond * 300,
			To:   time.Second,
		},
		Bucket{
			Name: "slow",
			From: time.Second,
			To:   time.Second * 3,
		},
		Bucket{
			Name: "really slow, check the host",
			From: time.Second * 3,
			To:   time.Second * 10,
		},
		Bucket{
			Name: "almost timed out",
			From: time.Second * 10,
			To:   time.Hour,
		},
	}
}

// Count how many durations fall into the bucket
func (b Bucket) Count(checks []RemoteCheck) (count int) {
	for _, c := range checks {
		if c.Duration >= b.From && c.Duration < b.To {
			count++
		}
	}
	return
}
