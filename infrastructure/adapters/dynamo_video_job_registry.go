package adapters

import (
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/config"
	"ad-agent-api/domain"
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

type dynamoVideoJobItem struct {
	JobId     string `dynamodbav:"job_id"`
	RunId     string `dynamodbav:"run_id"`
	SceneId   string `dynamodbav:"scene_id"`
	Product   string `dynamodbav:"product"`
	CreatedAt int64  `dynamodbav:"created_at"`
	TTL       int64  `dynamodbav:"ttl"`
}

type dynamoVideoJobRegistry struct {
	logger       outbound.LoggerPort
	dynamoSvc    dynamodbiface.DynamoDBAPI
	dynamoConfig *config.DynamoConfig
	now          func() time.Time
}

func NewDynamoVideoJobRegistry(logger outbound.LoggerPort, dynamoSvc dynamodbiface.DynamoDBAPI, dynamoConfig *config.DynamoConfig) outbound.VideoJobRegistryPort {
	return &dynamoVideoJobRegistry{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
		now:          time.Now,
	}
}

func (r *dynamoVideoJobRegistry) Register(ctx context.Context, record domain.VideoJobRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	item := dynamoVideoJobItem{
		JobId:     record.JobID,
		RunId:     record.RunID,
		SceneId:   record.SceneID,
		Product:   record.Product,
		CreatedAt: createdAt.Unix(),
		TTL:       createdAt.Add(time.Duration(r.dynamoConfig.TtlMinutes) * time.Minute).Unix(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to marshal video job item", map[string]interface{}{
			"jobId": record.JobID,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(r.dynamoConfig.TableName),
	}

	_, err = r.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to save video job item", map[string]interface{}{
			"jobId": record.JobID,
			"table": r.dynamoConfig.TableName,
		})
		return err
	}

	return nil
}

func (r *dynamoVideoJobRegistry) Lookup(ctx context.Context, jobID string) (*domain.VideoJobRecord, error) {
	out, err := r.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.dynamoConfig.TableName),
		Key: map[string]*dynamodb.AttributeValue{
			"job_id": {S: aws.String(jobID)},
		},
	})
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to read video job item", map[string]interface{}{
			"jobId": jobID,
		})
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, domain.ErrVideoJobNotFound
	}

	var item dynamoVideoJobItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	// expired items linger until DynamoDB sweeps them
	if item.TTL > 0 && item.TTL < r.now().Unix() {
		return nil, domain.ErrVideoJobNotFound
	}

	return &domain.VideoJobRecord{
		JobID:     item.JobId,
		RunID:     item.RunId,
		SceneID:   item.SceneId,
		Product:   item.Product,
		CreatedAt: time.Unix(item.CreatedAt, 0),
	}, nil
}
