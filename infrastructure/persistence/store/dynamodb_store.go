package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoDBStore.
// *dynamodb.Client satisfies it.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// DynamoDBStore implements KeyValueStore on a single DynamoDB table.
type DynamoDBStore struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

// NewDynamoDBStore creates a store for tableName.
func NewDynamoDBStore(client DynamoDBAPI, tableName string, logger *zap.Logger) *DynamoDBStore {
	return &DynamoDBStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// GetItem implements KeyValueStore. Reads are strongly consistent because most
// of them guard a subsequent write.
func (s *DynamoDBStore) GetItem(ctx context.Context, key Key, projection ...string) (Item, error) {
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            key.Attributes(),
		ConsistentRead: aws.Bool(true),
	}

	if len(projection) > 0 {
		names := make([]expression.NameBuilder, 0, len(projection))
		for _, p := range projection {
			names = append(names, expression.Name(p))
		}
		proj := expression.NamesList(names[0], names[1:]...)
		expr, err := expression.NewBuilder().WithProjection(proj).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build projection: %w", err)
		}
		input.ProjectionExpression = expr.Projection()
		input.ExpressionAttributeNames = expr.Names()
	}

	out, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, translateError(err)
	}
	if len(out.Item) == 0 {
		return nil, ErrItemNotFound
	}
	return out.Item, nil
}

// PutItem implements KeyValueStore.
func (s *DynamoDBStore) PutItem(ctx context.Context, item Item, cond Condition) error {
	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}

	expr, err := buildExpression(cond, Update{})
	if err != nil {
		return err
	}
	if expr != nil {
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		return translateError(err)
	}
	return nil
}

// UpdateItem implements KeyValueStore.
func (s *DynamoDBStore) UpdateItem(ctx context.Context, key Key, update Update, cond Condition) error {
	if update.IsZero() {
		return fmt.Errorf("update for %s/%s has no actions", key.PK, key.SK)
	}
	expr, err := buildExpression(cond, update)
	if err != nil {
		return err
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       key.Attributes(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		return translateError(err)
	}
	return nil
}

// DeleteItem implements KeyValueStore.
func (s *DynamoDBStore) DeleteItem(ctx context.Context, key Key, cond Condition) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       key.Attributes(),
	}

	expr, err := buildExpression(cond, Update{})
	if err != nil {
		return err
	}
	if expr != nil {
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	if _, err := s.client.DeleteItem(ctx, input); err != nil {
		return translateError(err)
	}
	return nil
}

// Query implements KeyValueStore. All pages are read; Limit is applied after filtering.
func (s *DynamoDBStore) Query(ctx context.Context, q Query) ([]Item, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	keyCond := expression.Key(AttrPK).Equal(expression.Value(q.PK))
	switch {
	case q.SKPrefix != "":
		keyCond = keyCond.And(expression.Key(AttrSK).BeginsWith(q.SKPrefix))
	case q.SKBetween != nil:
		keyCond = keyCond.And(expression.Key(AttrSK).Between(
			expression.Value(q.SKBetween.From),
			expression.Value(q.SKBetween.To),
		))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if !q.Filter.IsZero() {
		filter, err := q.Filter.builder()
		if err != nil {
			return nil, err
		}
		builder = builder.WithFilter(filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!q.Descending),
	}

	var items []Item
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, translateError(err)
		}
		items = append(items, page.Items...)
		if q.Limit > 0 && len(items) >= q.Limit {
			return items[:q.Limit], nil
		}
	}
	return items, nil
}

// TransactWrite implements KeyValueStore.
func (s *DynamoDBStore) TransactWrite(ctx context.Context, ops []Operation) error {
	if err := validateTransaction(ops); err != nil {
		return err
	}

	transactItems := make([]types.TransactWriteItem, 0, len(ops))
	for i, op := range ops {
		item, err := s.transactItem(op)
		if err != nil {
			return fmt.Errorf("failed to build transaction operation %d: %w", i, err)
		}
		transactItems = append(transactItems, item)
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		translated := translateError(err)
		if tce, ok := AsTransactionCanceled(translated); ok {
			s.logger.Debug("Transaction canceled",
				zap.Int("operations", len(ops)),
				zap.String("reasons", tce.Error()),
			)
		}
		return translated
	}
	return nil
}

func (s *DynamoDBStore) transactItem(op Operation) (types.TransactWriteItem, error) {
	update := Update{}
	if op.Type == OperationUpdate {
		update = op.Update
	}
	expr, err := buildExpression(op.Condition, update)
	if err != nil {
		return types.TransactWriteItem{}, err
	}

	var (
		condition *string
		names     map[string]string
		values    map[string]types.AttributeValue
	)
	if expr != nil {
		condition = expr.Condition()
		names = expr.Names()
		values = expr.Values()
	}

	switch op.Type {
	case OperationPut:
		return types.TransactWriteItem{Put: &types.Put{
			TableName:                 aws.String(s.tableName),
			Item:                      op.Item,
			ConditionExpression:       condition,
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		}}, nil
	case OperationUpdate:
		if expr == nil {
			return types.TransactWriteItem{}, fmt.Errorf("update has no actions")
		}
		return types.TransactWriteItem{Update: &types.Update{
			TableName:                 aws.String(s.tableName),
			Key:                       op.Key.Attributes(),
			UpdateExpression:          expr.Update(),
			ConditionExpression:       condition,
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		}}, nil
	case OperationDelete:
		return types.TransactWriteItem{Delete: &types.Delete{
			TableName:                 aws.String(s.tableName),
			Key:                       op.Key.Attributes(),
			ConditionExpression:       condition,
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		}}, nil
	case OperationConditionCheck:
		if condition == nil {
			return types.TransactWriteItem{}, fmt.Errorf("condition check needs a condition")
		}
		return types.TransactWriteItem{ConditionCheck: &types.ConditionCheck{
			TableName:                 aws.String(s.tableName),
			Key:                       op.Key.Attributes(),
			ConditionExpression:       condition,
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		}}, nil
	}
	return types.TransactWriteItem{}, fmt.Errorf("unknown operation type %q", op.Type)
}

// buildExpression returns nil when there is neither a condition nor an update.
func buildExpression(cond Condition, update Update) (*expression.Expression, error) {
	if cond.IsZero() && update.IsZero() {
		return nil, nil
	}

	builder := expression.NewBuilder()
	if !cond.IsZero() {
		cb, err := cond.builder()
		if err != nil {
			return nil, err
		}
		builder = builder.WithCondition(cb)
	}
	if !update.IsZero() {
		builder = builder.WithUpdate(update.builder())
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}
	return &expr, nil
}

// translateError maps SDK failures onto the store sentinels.
func translateError(err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrConditionFailed
	}

	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		reasons := make([]CancellationReason, len(tce.CancellationReasons))
		for i, r := range tce.CancellationReasons {
			reasons[i] = CancellationReason{
				Code:    aws.ToString(r.Code),
				Message: aws.ToString(r.Message),
			}
		}
		return &TransactionCanceledError{Reasons: reasons}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ConditionalCheckFailedException":
			return ErrConditionFailed
		case "TransactionCanceledException":
			return &TransactionCanceledError{Reasons: parseCancellationReasons(apiErr.ErrorMessage())}
		}
		return fmt.Errorf("dynamodb %s: %w", apiErr.ErrorCode(), err)
	}
	return err
}
