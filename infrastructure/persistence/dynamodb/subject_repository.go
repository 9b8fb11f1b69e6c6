// Package dynamodb implements the persistence ports on a single
// DynamoDB table. Items share a PK of SUBJECT#<id>; revisions sort by
// creation time in the SK so time-window reads are a single Query.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"promptline/application/ports"
	"promptline/domain/core/entities"
	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"
)

// SubjectRepository implements ports.SubjectRepository on DynamoDB.
type SubjectRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.SubjectRepository {
	return &SubjectRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// subjectItem is the DynamoDB item shape for a subject
type subjectItem struct {
	PK         string `dynamodbav:"PK"`     // SUBJECT#<id>
	SK         string `dynamodbav:"SK"`     // METADATA
	GSI1PK     string `dynamodbav:"GSI1PK"` // USER#<user_id>
	GSI1SK     string `dynamodbav:"GSI1SK"` // SUBJECT#<id>
	EntityType string `dynamodbav:"EntityType"`
	SubjectID  string `dynamodbav:"SubjectID"`
	UserID     string `dynamodbav:"UserID"`
	Name       string `dynamodbav:"Name"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

func subjectPK(id valueobjects.SubjectID) string {
	return fmt.Sprintf("SUBJECT#%s", id.String())
}

// Save persists a subject
func (r *SubjectRepository) Save(ctx context.Context, subject *entities.Subject) error {
	item := subjectItem{
		PK:         subjectPK(subject.ID()),
		SK:         "METADATA",
		GSI1PK:     fmt.Sprintf("USER#%s", subject.UserID()),
		GSI1SK:     fmt.Sprintf("SUBJECT#%s", subject.ID().String()),
		EntityType: "SUBJECT",
		SubjectID:  subject.ID().String(),
		UserID:     subject.UserID(),
		Name:       subject.Name(),
		CreatedAt:  subject.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:  subject.UpdatedAt().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal subject", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("failed to save subject",
			zap.String("subject_id", subject.ID().String()),
			zap.Error(err))
		return pkgerrors.NewDatabaseError("save subject", err)
	}
	return nil
}

// GetByID retrieves a subject by its ID
func (r *SubjectRepository) GetByID(ctx context.Context, id valueobjects.SubjectID) (*entities.Subject, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: subjectPK(id)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get subject", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("subject")
	}

	var item subjectItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal subject", err)
	}
	return r.toEntity(item)
}

// GetByUserID retrieves all subjects owned by a user via the GSI
func (r *SubjectRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Subject, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("USER#%s", userID))).
		And(expression.Key("GSI1SK").BeginsWith("SUBJECT#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build subject query", err)
	}

	subjects := []*entities.Subject{}
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("list subjects", err)
		}
		for _, raw := range page.Items {
			var item subjectItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewInternalError("failed to unmarshal subject", err)
			}
			subject, err := r.toEntity(item)
			if err != nil {
				return nil, err
			}
			subjects = append(subjects, subject)
		}
	}
	return subjects, nil
}

// Delete removes a subject and every item under its partition
func (r *SubjectRepository) Delete(ctx context.Context, id valueobjects.SubjectID) error {
	keyCond := expression.Key("PK").Equal(expression.Value(subjectPK(id)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build delete query", err)
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ProjectionExpression:      aws.String("PK, SK"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return pkgerrors.NewDatabaseError("delete subject", err)
		}
		for _, raw := range page.Items {
			if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(r.tableName),
				Key: map[string]types.AttributeValue{
					"PK": raw["PK"],
					"SK": raw["SK"],
				},
			}); err != nil {
				return pkgerrors.NewDatabaseError("delete subject item", err)
			}
		}
	}
	return nil
}

func (r *SubjectRepository) toEntity(item subjectItem) (*entities.Subject, error) {
	id, err := valueobjects.NewSubjectIDFromString(item.SubjectID)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt subject ID in store", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt subject timestamp in store", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt subject timestamp in store", err)
	}
	return entities.ReconstructSubject(id, item.UserID, item.Name, createdAt, updatedAt), nil
}
