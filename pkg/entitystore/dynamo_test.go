package entitystore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metriclab/platformkit/pkg/entitystore"
	"github.com/metriclab/platformkit/pkg/storekey"
)

// fakeDynamoClient emulates the slice of the DynamoDB API the store uses:
// a single table keyed by PK with GSI projections queried by attribute
// equality. Not safe for concurrent use; tests are sequential per client.
type fakeDynamoClient struct {
	items map[string]map[string]types.AttributeValue
	err   error // when set, every call fails with this error
}

func newFakeDynamoClient() *fakeDynamoClient {
	return &fakeDynamoClient{items: make(map[string]map[string]types.AttributeValue)}
}

func itemString(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (f *fakeDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.items[itemString(params.Item, "PK")] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[itemString(params.Key, "PK")]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeDynamoClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	pkAttr := params.ExpressionAttributeNames["#pk"]
	want, _ := params.ExpressionAttributeValues[":k"].(*types.AttributeValueMemberS)

	var items []map[string]types.AttributeValue
	for _, item := range f.items {
		if itemString(item, pkAttr) == want.Value {
			items = append(items, item)
		}
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

func (f *fakeDynamoClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	pk := itemString(params.Key, "PK")
	item, ok := f.items[pk]
	if !ok {
		return &dynamodb.DeleteItemOutput{}, nil
	}
	delete(f.items, pk)
	return &dynamodb.DeleteItemOutput{Attributes: item}, nil
}

func newDynamoStore(t *testing.T, client entitystore.DynamoClient) *entitystore.DynamoStore {
	t.Helper()
	store, err := entitystore.NewDynamoStore(context.Background(),
		entitystore.Config{Table: "platform"},
		entitystore.WithDynamoClient(client),
	)
	require.NoError(t, err)
	return store
}

func TestDynamoStoreRoundTrip(t *testing.T) {
	t.Parallel()

	client := newFakeDynamoClient()
	store := newDynamoStore(t, client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, userRow("u1", "jane@acme.com")))

	// The wire item carries the tagged composite keys.
	item := client.items["USER#u1"]
	require.NotNil(t, item)
	assert.Equal(t, "USER#u1", itemString(item, "SK"))
	assert.Equal(t, "EMAIL#jane@acme.com", itemString(item, "GSI1PK"))
	assert.Equal(t, "EMAIL#jane@acme.com", itemString(item, "GSI1SK"))
	assert.Equal(t, "USERTYPE#member", itemString(item, "GSI2PK"))

	row, err := store.Get(ctx, storekey.User("u1"))
	require.NoError(t, err)
	assert.Equal(t, storekey.User("u1"), row.Key)
	assert.Equal(t, storekey.Email("jane@acme.com"), row.Index1)
	assert.Equal(t, storekey.UserType("member"), row.Index2)

	first, ok := row.Attrs.String("first_name")
	assert.True(t, ok)
	assert.Equal(t, "Jane", first)
	active, ok := row.Attrs.Bool("is_active")
	assert.True(t, ok)
	assert.True(t, active)
}

func TestDynamoStoreGetByIndex(t *testing.T) {
	t.Parallel()

	store := newDynamoStore(t, newFakeDynamoClient())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, userRow("u1", "jane@acme.com")))

	row, err := store.GetByIndex(ctx, entitystore.IndexOne, storekey.Email("jane@acme.com"))
	require.NoError(t, err)
	assert.Equal(t, storekey.User("u1"), row.Key)

	row, err = store.GetByIndex(ctx, entitystore.IndexTwo, storekey.UserType("member"))
	require.NoError(t, err)
	assert.Equal(t, storekey.User("u1"), row.Key)

	_, err = store.GetByIndex(ctx, entitystore.IndexOne, storekey.Email("nobody@acme.com"))
	assert.ErrorIs(t, err, entitystore.ErrNotFound)

	_, err = store.GetByIndex(ctx, entitystore.Index("GSI9"), storekey.Email("jane@acme.com"))
	assert.Error(t, err)
}

func TestDynamoStoreNotFound(t *testing.T) {
	t.Parallel()

	store := newDynamoStore(t, newFakeDynamoClient())
	ctx := context.Background()

	_, err := store.Get(ctx, storekey.User("missing"))
	assert.ErrorIs(t, err, entitystore.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, storekey.User("missing")), entitystore.ErrNotFound)
}

func TestDynamoStoreUnavailable(t *testing.T) {
	t.Parallel()

	client := newFakeDynamoClient()
	client.err = errors.New("connection refused")
	store := newDynamoStore(t, client)
	ctx := context.Background()

	assert.ErrorIs(t, store.Put(ctx, userRow("u1", "jane@acme.com")), entitystore.ErrUnavailable)

	_, err := store.Get(ctx, storekey.User("u1"))
	assert.ErrorIs(t, err, entitystore.ErrUnavailable)

	_, err = store.GetByIndex(ctx, entitystore.IndexOne, storekey.Email("jane@acme.com"))
	assert.ErrorIs(t, err, entitystore.ErrUnavailable)

	assert.ErrorIs(t, store.Delete(ctx, storekey.User("u1")), entitystore.ErrUnavailable)
}

func TestDynamoStoreMalformedStoredKey(t *testing.T) {
	t.Parallel()

	client := newFakeDynamoClient()
	store := newDynamoStore(t, client)

	// Rows written outside the codec must surface as corruption, never be
	// repaired or skipped.
	client.items["USER#u1"] = map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "garbage"},
		"SK": &types.AttributeValueMemberS{Value: "garbage"},
	}
	client.items["USER#u2"] = map[string]types.AttributeValue{
		"PK":     &types.AttributeValueMemberS{Value: "USER#u2"},
		"SK":     &types.AttributeValueMemberS{Value: "USER#u2"},
		"GSI1PK": &types.AttributeValueMemberS{Value: "nonsense"},
	}

	_, err := store.Get(context.Background(), storekey.User("u1"))
	assert.ErrorIs(t, err, storekey.ErrMalformedKey)

	_, err = store.Get(context.Background(), storekey.User("u2"))
	assert.ErrorIs(t, err, storekey.ErrMalformedKey)
}

func TestNewDynamoStoreRequiresTable(t *testing.T) {
	t.Parallel()

	_, err := entitystore.NewDynamoStore(context.Background(), entitystore.Config{},
		entitystore.WithDynamoClient(newFakeDynamoClient()))
	assert.Error(t, err)
}
