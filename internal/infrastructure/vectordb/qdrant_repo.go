package vectordb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leon37/Hamhama/internal/model"
	"github.com/leon37/Hamhama/internal/repository"
	pb "github.com/qdrant/go-client/qdrant"
)

type QdrantRepository struct {
	client *QdrantClient
}

// NewQdrantRepository 构造函数
func NewQdrantRepository(client *QdrantClient) repository.RecipeIndex {
	return &QdrantRepository{client: client}
}

func (r *QdrantRepository) Upsert(ctx context.Context, recipe *model.Recipe, vector []float32) error {
	points := []*pb.PointStruct{
		{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Num{Num: uint64(recipe.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: vector},
				},
			},
			Payload: map[string]*pb.Value{
				"recipe_id": {Kind: &pb.Value_IntegerValue{IntegerValue: int64(recipe.ID)}},
				"name":      {Kind: &pb.Value_StringValue{StringValue: recipe.Name}},
				"category":  {Kind: &pb.Value_StringValue{StringValue: string(recipe.Category)}},
			},
		},
	}

	wait := true
	_, err := r.client.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.client.collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		slog.Error("qdrant upsert failed", "recipe_id", recipe.ID, "error", err)
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (r *QdrantRepository) Search(ctx context.Context, vector []float32, limit int, category model.RecipeCategory) ([]repository.RecipeHit, error) {
	req := &pb.SearchPoints{
		CollectionName: r.client.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: false},
		},
	}
	// 按分类过滤
	if category != "" {
		req.Filter = &pb.Filter{
			Must: []*pb.Condition{{
				ConditionOneOf: &pb.Condition_Field{
					Field: &pb.FieldCondition{
						Key: "category",
						Match: &pb.Match{
							MatchValue: &pb.Match_Keyword{Keyword: string(category)},
						},
					},
				},
			}},
		}
	}

	searchResult, err := r.client.points.Search(ctx, req)
	if err != nil {
		slog.Error("qdrant search failed", "error", err)
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	hits := make([]repository.RecipeHit, 0, len(searchResult.Result))
	for _, point := range searchResult.Result {
		hits = append(hits, repository.RecipeHit{
			RecipeID: uint(point.GetId().GetNum()),
			Score:    point.GetScore(),
		})
	}
	return hits, nil
}

func (r *QdrantRepository) Delete(ctx context.Context, recipeIDs []uint) error {
	if len(recipeIDs) == 0 {
		return nil
	}
	ids := make([]*pb.PointId, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		ids = append(ids, &pb.PointId{PointIdOptions: &pb.PointId_Num{Num: uint64(id)}})
	}
	_, err := r.client.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.client.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{Ids: ids},
			},
		},
	})
	return err
}
