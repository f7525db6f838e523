package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	b, _ := io.ReadAll(params.Body)
	f.body = string(b)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestJourneyArchive_Put(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		wantKey  string
		location string
	}{
		{name: "no prefix", prefix: "", wantKey: "journeys/u/1.md", location: "s3://exports/journeys/u/1.md"},
		{name: "prefix trimmed", prefix: "/parallelme/", wantKey: "parallelme/journeys/u/1.md", location: "s3://exports/parallelme/journeys/u/1.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePutter{}
			a := newJourneyArchive(fake, "exports", tt.prefix)

			got, err := a.Put(context.Background(), "journeys/u/1.md", []byte("# hi"), markdownContentType)
			if err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if got != tt.location {
				t.Errorf("Put() = %q, want %q", got, tt.location)
			}
			if aws.ToString(fake.input.Key) != tt.wantKey || aws.ToString(fake.input.Bucket) != "exports" {
				t.Errorf("input = %+v", fake.input)
			}
			if aws.ToString(fake.input.ContentType) != markdownContentType || fake.body != "# hi" {
				t.Errorf("content type %q body %q", aws.ToString(fake.input.ContentType), fake.body)
			}
		})
	}
}

func TestJourneyArchive_PutError(t *testing.T) {
	a := newJourneyArchive(&fakePutter{err: errors.New("denied")}, "exports", "")
	if _, err := a.Put(context.Background(), "k", nil, markdownContentType); err == nil {
		t.Error("Put() should fail when the upload fails")
	}
}

func TestNewJourneyArchive_RequiresBucket(t *testing.T) {
	if _, err := NewJourneyArchive(context.Background(), ArchiveConfig{}); err == nil {
		t.Error("NewJourneyArchive() without bucket should fail")
	}
}
