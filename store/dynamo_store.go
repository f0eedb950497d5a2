package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DynamoAPI is the slice of the DynamoDB client the store needs.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// dynamoRecord is one key of the store. The table's partition key is "pk".
type dynamoRecord struct {
	Key       string `dynamodbav:"pk"`
	Data      string `dynamodbav:"data"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}

// DynamoKV stores every key as a single item in one table.
type DynamoKV struct {
	Client    DynamoAPI
	TableName string
	Logger    *zap.Logger
}

func NewDynamoKV(client DynamoAPI, tableName string, logger *zap.Logger) *DynamoKV {
	return &DynamoKV{Client: client, TableName: tableName, Logger: logger}
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func (d *DynamoKV) Get(ctx context.Context, key string) ([]byte, error) {
	output, err := d.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.TableName),
		Key:            map[string]types.AttributeValue{"pk": &types.AttributeValueMemberS{Value: key}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", d.TableName, err)
	}
	if output.Item == nil {
		return nil, ErrNotFound
	}

	var record dynamoRecord
	if err := attributevalue.UnmarshalMap(output.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item '%s': %w", key, err)
	}
	return []byte(record.Data), nil
}

func (d *DynamoKV) Put(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(dynamoRecord{
		Key:       key,
		Data:      string(value),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = d.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.TableName),
		Item:      item,
	})
	if err != nil {
		d.Logger.Warn("dynamo put failed", zap.String("table", d.TableName), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to put item in table '%s': %w", d.TableName, err)
	}
	d.Logger.Debug("item stored", zap.String("table", d.TableName), zap.String("key", key))
	return nil
}
