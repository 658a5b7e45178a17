package entitystore

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/metriclab/platformkit/pkg/storekey"
)

// Attribute names reserved for the key and index projections. Repository
// attributes must not collide with these.
const (
	attrPK     = "PK"
	attrSK     = "SK"
	attrGSI1PK = "GSI1PK"
	attrGSI1SK = "GSI1SK"
	attrGSI2PK = "GSI2PK"
	attrGSI2SK = "GSI2SK"
)

// DynamoClient defines the DynamoDB operations used by DynamoStore.
type DynamoClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore implements Store on a single DynamoDB table with two global
// secondary indexes (GSI1, GSI2). Rows use PK = SK = the encoded primary key
// and GSIxPK = GSIxSK = the encoded index key, matching the platform's table
// layout. It is safe for concurrent use.
type DynamoStore struct {
	client DynamoClient
	table  string
}

// DynamoOption configures a DynamoStore during construction.
type DynamoOption func(*dynamoOptions)

type dynamoOptions struct {
	client DynamoClient
}

// WithDynamoClient sets a custom pre-configured DynamoDB client.
// Useful for testing with mocks.
func WithDynamoClient(client DynamoClient) DynamoOption {
	return func(o *dynamoOptions) {
		o.client = client
	}
}

// NewDynamoStore creates a store bound to the configured table. Unless a
// client is injected, credentials and region resolution follow the default
// AWS chain, with static credentials taking precedence when configured.
func NewDynamoStore(ctx context.Context, cfg Config, opts ...DynamoOption) (*DynamoStore, error) {
	if cfg.Table == "" {
		return nil, errors.New("entitystore: table name is required")
	}

	var options dynamoOptions
	for _, opt := range opts {
		opt(&options)
	}

	client := options.client
	if client == nil {
		loadOpts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("entitystore: failed to load aws config: %w", err)
		}

		client = dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
		})
	}

	return &DynamoStore{client: client, table: cfg.Table}, nil
}

// Put stores or replaces a row.
func (s *DynamoStore) Put(ctx context.Context, row Row) error {
	item, err := marshalRow(row)
	if err != nil {
		return err
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// Get fetches a row by primary key using a strongly consistent read, so a
// Get immediately after Put observes the write.
func (s *DynamoStore) Get(ctx context.Context, key storekey.Key) (Row, error) {
	encoded := &types.AttributeValueMemberS{Value: key.Encode()}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            map[string]types.AttributeValue{attrPK: encoded, attrSK: encoded},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return Row{}, errors.Join(ErrUnavailable, err)
	}
	if out.Item == nil {
		return Row{}, ErrNotFound
	}

	return unmarshalRow(out.Item)
}

// GetByIndex fetches a row through one of the global secondary indexes.
// GSI reads are eventually consistent; a row written moments ago may not be
// visible yet, which surfaces as ErrNotFound.
func (s *DynamoStore) GetByIndex(ctx context.Context, index Index, key storekey.Key) (Row, error) {
	pkName, skName, err := indexAttrNames(index)
	if err != nil {
		return Row{}, err
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(string(index)),
		KeyConditionExpression: aws.String("#pk = :k AND #sk = :k"),
		ExpressionAttributeNames: map[string]string{
			"#pk": pkName,
			"#sk": skName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":k": &types.AttributeValueMemberS{Value: key.Encode()},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return Row{}, errors.Join(ErrUnavailable, err)
	}
	if len(out.Items) == 0 {
		return Row{}, ErrNotFound
	}

	return unmarshalRow(out.Items[0])
}

// Delete removes a row by primary key.
func (s *DynamoStore) Delete(ctx context.Context, key storekey.Key) error {
	encoded := &types.AttributeValueMemberS{Value: key.Encode()}

	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.table),
		Key:          map[string]types.AttributeValue{attrPK: encoded, attrSK: encoded},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	if len(out.Attributes) == 0 {
		return ErrNotFound
	}
	return nil
}

func indexAttrNames(index Index) (pk, sk string, err error) {
	switch index {
	case IndexOne:
		return attrGSI1PK, attrGSI1SK, nil
	case IndexTwo:
		return attrGSI2PK, attrGSI2SK, nil
	default:
		return "", "", fmt.Errorf("entitystore: unknown index %q", index)
	}
}

// marshalRow serializes a Row into a DynamoDB item. Key and index
// projections occupy the reserved attribute names; everything else comes
// from the Attrs record.
func marshalRow(row Row) (map[string]types.AttributeValue, error) {
	if err := validateRow(row); err != nil {
		return nil, err
	}

	item, err := attributevalue.MarshalMap(map[string]any(row.Attrs))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	if item == nil {
		item = make(map[string]types.AttributeValue)
	}

	pk := &types.AttributeValueMemberS{Value: row.Key.Encode()}
	item[attrPK] = pk
	item[attrSK] = pk

	if !row.Index1.IsZero() {
		v := &types.AttributeValueMemberS{Value: row.Index1.Encode()}
		item[attrGSI1PK] = v
		item[attrGSI1SK] = v
	}
	if !row.Index2.IsZero() {
		v := &types.AttributeValueMemberS{Value: row.Index2.Encode()}
		item[attrGSI2PK] = v
		item[attrGSI2SK] = v
	}

	return item, nil
}

// unmarshalRow decodes a DynamoDB item back into a Row. A primary key that
// does not parse is data corruption and surfaces the storekey error.
func unmarshalRow(item map[string]types.AttributeValue) (Row, error) {
	var row Row

	rawPK, ok := item[attrPK].(*types.AttributeValueMemberS)
	if !ok {
		return Row{}, fmt.Errorf("%w: item has no string PK", ErrCorruptRecord)
	}

	key, err := storekey.Decode(rawPK.Value)
	if err != nil {
		return Row{}, err
	}
	row.Key = key

	if raw, ok := item[attrGSI1PK].(*types.AttributeValueMemberS); ok {
		idx, err := storekey.Decode(raw.Value)
		if err != nil {
			return Row{}, err
		}
		row.Index1 = idx
	}
	if raw, ok := item[attrGSI2PK].(*types.AttributeValueMemberS); ok {
		idx, err := storekey.Decode(raw.Value)
		if err != nil {
			return Row{}, err
		}
		row.Index2 = idx
	}

	attrs := make(map[string]types.AttributeValue, len(item))
	for name, value := range item {
		switch name {
		case attrPK, attrSK, attrGSI1PK, attrGSI1SK, attrGSI2PK, attrGSI2SK:
		default:
			attrs[name] = value
		}
	}

	var rec map[string]any
	if err := attributevalue.UnmarshalMap(attrs, &rec); err != nil {
		return Row{}, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	row.Attrs = Record(rec)

	return row, nil
}

// Compile-time interface assertion
var _ Store = (*DynamoStore)(nil)
