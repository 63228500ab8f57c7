package adapters

import (
	"ad-agent-api/config"
	"ad-agent-api/domain"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items  map[string]map[string]*dynamodb.AttributeValue
	putErr error
}

func (f *fakeDynamo) PutItemWithContext(_ aws.Context, input *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.items[aws.StringValue(input.Item["job_id"].S)] = input.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItemWithContext(_ aws.Context, input *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[aws.StringValue(input.Key["job_id"].S)]}, nil
}

func TestDynamoVideoJobRegistry_RegisterAndLookup(t *testing.T) {
	svc := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	registry := NewDynamoVideoJobRegistry(NewNopLogger(), svc, &config.DynamoConfig{TableName: "video-jobs", TtlMinutes: 60})

	createdAt := time.Now().Add(-time.Minute).Truncate(time.Second)
	err := registry.Register(context.Background(), domain.VideoJobRecord{
		JobID:     "task-7",
		RunID:     "run-1",
		SceneID:   "scene-3",
		Product:   "Vivo T3 5G",
		CreatedAt: createdAt,
	})
	require.NoError(t, err)

	stored := svc.items["task-7"]
	require.NotNil(t, stored)
	assert.NotNil(t, stored["ttl"].N)

	record, err := registry.Lookup(context.Background(), "task-7")
	require.NoError(t, err)
	assert.Equal(t, "run-1", record.RunID)
	assert.Equal(t, "scene-3", record.SceneID)
	assert.Equal(t, "Vivo T3 5G", record.Product)
	assert.True(t, createdAt.Equal(record.CreatedAt))
}

func TestDynamoVideoJobRegistry_LookupMissing(t *testing.T) {
	svc := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	registry := NewDynamoVideoJobRegistry(NewNopLogger(), svc, &config.DynamoConfig{TableName: "video-jobs", TtlMinutes: 60})

	_, err := registry.Lookup(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrVideoJobNotFound)
}

func TestDynamoVideoJobRegistry_LookupExpired(t *testing.T) {
	svc := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	registry := NewDynamoVideoJobRegistry(NewNopLogger(), svc, &config.DynamoConfig{TableName: "video-jobs", TtlMinutes: 1})

	err := registry.Register(context.Background(), domain.VideoJobRecord{
		JobID:     "task-old",
		CreatedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	_, err = registry.Lookup(context.Background(), "task-old")
	assert.ErrorIs(t, err, domain.ErrVideoJobNotFound)
}

func TestDynamoVideoJobRegistry_RegisterFailure(t *testing.T) {
	svc := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}, putErr: errors.New("throughput exceeded")}
	registry := NewDynamoVideoJobRegistry(NewNopLogger(), svc, &config.DynamoConfig{TableName: "video-jobs", TtlMinutes: 1})

	err := registry.Register(context.Background(), domain.VideoJobRecord{JobID: "task-1"})
	assert.EqualError(t, err, "throughput exceeded")
}
