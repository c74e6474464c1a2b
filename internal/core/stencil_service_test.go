package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

type stencilRepoStub struct {
	db.StencilRepository

	created []*models.Stencil
}

func (s *stencilRepoStub) Create(ctx context.Context, stencil *models.Stencil) (string, error) {
	s.created = append(s.created, stencil)
	return stencil.ID, nil
}

type generatorStub struct {
	prompt string
	data   []byte
	err    error
}

func (g *generatorStub) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	g.prompt = prompt
	if g.err != nil {
		return nil, g.err
	}
	return g.data, nil
}

type storeStub struct {
	objectName  string
	contentType string
	saved       []byte
}

func (s *storeStub) Save(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	s.objectName = objectName
	s.contentType = contentType
	s.saved = data
	return "https://storage.example/" + objectName, nil
}

func TestGenerate_UploadsAndRecords(t *testing.T) {
	repo := &stencilRepoStub{}
	gen := &generatorStub{data: []byte("png-bytes")}
	store := &storeStub{}
	svc := NewStencilService(repo, gen, store, zap.NewNop())

	stencil, err := svc.Generate(context.Background(), "artist-1", "  a koi fish wrapping the forearm  ")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if stencil.Prompt != "a koi fish wrapping the forearm" {
		t.Fatalf("stored prompt %q, want trimmed user prompt", stencil.Prompt)
	}
	if !strings.HasSuffix(gen.prompt, "a koi fish wrapping the forearm") || gen.prompt == stencil.Prompt {
		t.Fatalf("model prompt %q missing preamble", gen.prompt)
	}
	if store.contentType != "image/png" {
		t.Fatalf("contentType %q, want image/png", store.contentType)
	}
	if !strings.HasPrefix(store.objectName, "stencils/artist-1/") {
		t.Fatalf("objectName %q not namespaced by owner", store.objectName)
	}
	if stencil.ImageURL == "" {
		t.Fatal("stencil missing image URL")
	}
	if len(repo.created) != 1 {
		t.Fatalf("recorded %d stencils, want 1", len(repo.created))
	}
}

func TestGenerate_ValidatesPrompt(t *testing.T) {
	svc := NewStencilService(&stencilRepoStub{}, &generatorStub{}, &storeStub{}, zap.NewNop())

	if _, err := svc.Generate(context.Background(), "artist-1", "   "); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("blank prompt: got %v, want ErrEmptyPrompt", err)
	}
	if _, err := svc.Generate(context.Background(), "artist-1", strings.Repeat("x", maxPromptLen+1)); !errors.Is(err, ErrPromptTooLong) {
		t.Fatalf("oversized prompt: got %v, want ErrPromptTooLong", err)
	}
}

func TestGenerate_GeneratorFailureRecordsNothing(t *testing.T) {
	repo := &stencilRepoStub{}
	store := &storeStub{}
	svc := NewStencilService(repo, &generatorStub{err: errors.New("model unavailable")}, store, zap.NewNop())

	_, err := svc.Generate(context.Background(), "artist-1", "a rose")
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(repo.created) != 0 || store.saved != nil {
		t.Fatal("failed generation must not upload or record")
	}
}
