package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"promptline/application/ports"
	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"
)

const (
	lockDuration      = 30 * time.Second
	lockRetryInterval = 100 * time.Millisecond
)

// SubjectLock implements ports.SubjectLock with DynamoDB conditional
// writes. One lock item per subject; expired locks are stealable and a
// TTL attribute cleans up abandoned ones.
type SubjectLock struct {
	client    *dynamodb.Client
	tableName string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewSubjectLock creates a new SubjectLock
func NewSubjectLock(client *dynamodb.Client, tableName string, timeout time.Duration, logger *zap.Logger) ports.SubjectLock {
	return &SubjectLock{
		client:    client,
		tableName: tableName,
		timeout:   timeout,
		logger:    logger,
	}
}

// Acquire takes the per-subject lock, retrying until the configured
// timeout. The returned release deletes the lock item; if the delete
// fails the TTL expiry takes over.
func (l *SubjectLock) Acquire(ctx context.Context, subjectID valueobjects.SubjectID) (func(), error) {
	lockID := uuid.New().String()
	deadline := time.Now().Add(l.timeout)

	for {
		acquired, err := l.tryAcquire(ctx, subjectID, lockID)
		if err != nil {
			return nil, err
		}
		if acquired {
			return func() { l.release(subjectID, lockID) }, nil
		}
		if time.Now().After(deadline) {
			return nil, pkgerrors.NewConflictError(fmt.Sprintf("subject %s is locked by another writer", subjectID.String()))
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

func (l *SubjectLock) tryAcquire(ctx context.Context, subjectID valueobjects.SubjectID, lockID string) (bool, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(lockDuration)

	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.tableName),
		Item: map[string]types.AttributeValue{
			"PK":        &types.AttributeValueMemberS{Value: fmt.Sprintf("LOCK#%s", subjectPK(subjectID))},
			"SK":        &types.AttributeValueMemberS{Value: "LOCK"},
			"LockID":    &types.AttributeValueMemberS{Value: lockID},
			"ExpiresAt": &types.AttributeValueMemberS{Value: expiresAt.Format(time.RFC3339)},
			"TTL":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiresAt.Unix())},
		},
		ConditionExpression: aws.String("attribute_not_exists(PK) OR ExpiresAt < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return false, nil
		}
		return false, pkgerrors.NewDatabaseError("acquire subject lock", err)
	}
	return true, nil
}

// release deletes the lock item only if this holder still owns it.
func (l *SubjectLock) release(subjectID valueobjects.SubjectID, lockID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := l.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(l.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("LOCK#%s", subjectPK(subjectID))},
			"SK": &types.AttributeValueMemberS{Value: "LOCK"},
		},
		ConditionExpression: aws.String("LockID = :lock_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":lock_id": &types.AttributeValueMemberS{Value: lockID},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			// Lock expired and was taken over; nothing to release.
			return
		}
		l.logger.Warn("failed to release subject lock, TTL will reclaim it",
			zap.String("subject_id", subjectID.String()),
			zap.Error(err))
	}
}
