package collab

import (
	"context"
	"testing"

	"github.com/reviewapp/hybridrec/core"
)

// 两个用户偏好完全相反的极小数据集：训练后模型应恢复各自的偏好排序。
func preferenceInteractions() []core.Interaction {
	return []core.Interaction{
		{UserID: 1, PostID: 1, Score: 5},
		{UserID: 1, PostID: 2, Score: 1},
		{UserID: 2, PostID: 1, Score: 1},
		{UserID: 2, PostID: 2, Score: 5},
	}
}

func TestTrainer_PreferenceRecovery(t *testing.T) {
	trainer := &Trainer{Opts: Options{
		Factors:      2,
		Epochs:       300,
		LearningRate: 0.05,
		Seed:         42,
	}}

	model, err := trainer.Train(context.Background(), preferenceInteractions())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if got1, got2 := model.Predict(1, 1), model.Predict(1, 2); got1 <= got2 {
		t.Errorf("user 1 should prefer post 1: Predict(1,1)=%v Predict(1,2)=%v", got1, got2)
	}
	if got1, got2 := model.Predict(2, 2), model.Predict(2, 1); got1 <= got2 {
		t.Errorf("user 2 should prefer post 2: Predict(2,2)=%v Predict(2,1)=%v", got1, got2)
	}
}

func TestTrainer_Deterministic(t *testing.T) {
	opts := Options{Factors: 4, Epochs: 50, Seed: 7}
	interactions := preferenceInteractions()

	m1, err := (&Trainer{Opts: opts}).Train(context.Background(), interactions)
	if err != nil {
		t.Fatalf("first Train: %v", err)
	}
	m2, err := (&Trainer{Opts: opts}).Train(context.Background(), interactions)
	if err != nil {
		t.Fatalf("second Train: %v", err)
	}

	for _, in := range interactions {
		p1 := m1.Predict(in.UserID, in.PostID)
		p2 := m2.Predict(in.UserID, in.PostID)
		if p1 != p2 {
			t.Errorf("Predict(%d,%d) not deterministic: %v != %v", in.UserID, in.PostID, p1, p2)
		}
	}
}

func TestTrainer_EmptyDataset(t *testing.T) {
	_, err := (&Trainer{}).Train(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty training set")
	}
	if !core.IsEmptyDataset(err) {
		t.Errorf("expected EMPTY_DATASET error, got %v", err)
	}
}

func TestTrainer_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative factors", Options{Factors: -1}},
		{"negative epochs", Options{Epochs: -5}},
		{"negative learning rate", Options{LearningRate: -0.01}},
		{"negative regularization", Options{Regularization: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Trainer{Opts: tt.opts}).Train(context.Background(), preferenceInteractions())
			if !core.IsInvalidInput(err) {
				t.Errorf("expected INVALID_INPUT error, got %v", err)
			}
		})
	}
}

func TestTrainer_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Trainer{Opts: Options{Epochs: 10, Seed: 1}}).Train(ctx, preferenceInteractions())
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFactorModel_ColdStart(t *testing.T) {
	trainer := &Trainer{Opts: Options{Factors: 2, Epochs: 20, Seed: 3}}
	model, err := trainer.Train(context.Background(), preferenceInteractions())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	t.Run("unknown user and post", func(t *testing.T) {
		if got := model.Predict(999, 999); got != model.GlobalBias {
			t.Errorf("expected global bias %v, got %v", model.GlobalBias, got)
		}
	})
	t.Run("unknown user only", func(t *testing.T) {
		want := model.GlobalBias + model.ItemBias[1]
		if got := model.Predict(999, 1); got != want {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
	t.Run("unknown post only", func(t *testing.T) {
		want := model.GlobalBias + model.UserBias[1]
		if got := model.Predict(1, 999); got != want {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestFactorModel_Clamp(t *testing.T) {
	trainer := &Trainer{Opts: Options{Factors: 2, Epochs: 300, LearningRate: 0.05, Seed: 42, ClampToRange: true}}
	model, err := trainer.Train(context.Background(), preferenceInteractions())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	for _, in := range preferenceInteractions() {
		got := model.Predict(in.UserID, in.PostID)
		if got < model.MinScore || got > model.MaxScore {
			t.Errorf("Predict(%d,%d)=%v outside [%v,%v]", in.UserID, in.PostID, got, model.MinScore, model.MaxScore)
		}
	}
}

func TestFactorModel_SaveLoad(t *testing.T) {
	trainer := &Trainer{Opts: Options{Factors: 2, Epochs: 20, Seed: 5}}
	model, err := trainer.Train(context.Background(), preferenceInteractions())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	path := t.TempDir() + "/model.json"
	if err := model.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadFactorModel(path)
	if err != nil {
		t.Fatalf("LoadFactorModel: %v", err)
	}

	for _, in := range preferenceInteractions() {
		want := model.Predict(in.UserID, in.PostID)
		got := loaded.Predict(in.UserID, in.PostID)
		if want != got {
			t.Errorf("Predict(%d,%d) after reload: %v != %v", in.UserID, in.PostID, got, want)
		}
	}
}
