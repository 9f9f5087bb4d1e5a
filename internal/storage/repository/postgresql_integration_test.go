package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

func TestStorage_CreateAndGetDraft(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "editor1", "editor1@example.com", "hash")

	draft := models.Draft{
		UserUID: uid,
		Topic:   "Pensão alimentícia",
		Params: models.GenerationParams{
			Topic:    "Pensão alimentícia",
			Audience: "pais divorciados",
			Tone:     "acessível",
			Keywords: []string{"pensão", "direito de família"},
		},
		Result: &models.GenerationResult{
			Title: "Como funciona a pensão alimentícia",
			Slug:  "como-funciona-a-pensao-alimenticia",
			HTML:  "<p>texto</p>",
			FAQ: []models.FAQItem{
				{Question: "Quem paga?", Answer: "Depende da guarda."},
			},
		},
	}

	id, err := storage.CreateDraft(ctx, draft)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := storage.GetDraft(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uid, got.UserUID)
	assert.Equal(t, draft.Params, got.Params)
	require.NotNil(t, got.Result)
	assert.Equal(t, draft.Result.Title, got.Result.Title)
	assert.Equal(t, draft.Result.FAQ, got.Result.FAQ)
	assert.Equal(t, 0, got.RegenerationCount)
	assert.False(t, got.Published)
}

func TestStorage_GetDraft_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	got, err := storage.GetDraft(context.Background(), uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_IncrementRegeneration(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "editor1", "editor1@example.com", "hash")

	id, err := storage.CreateDraft(ctx, models.Draft{
		UserUID: uid,
		Topic:   "Contratos",
		Params:  models.GenerationParams{Topic: "Contratos"},
	})
	require.NoError(t, err)

	// Счётчик растёт ровно до предела
	for i := range models.MaxRegenerations {
		affected, incErr := storage.IncrementRegeneration(ctx, id, models.MaxRegenerations)
		require.NoError(t, incErr, "attempt %d", i+1)
		assert.Equal(t, 1, affected)
	}

	affected, err := storage.IncrementRegeneration(ctx, id, models.MaxRegenerations)
	require.NoError(t, err)
	assert.Equal(t, 0, affected)

	got, err := storage.GetDraft(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.MaxRegenerations, got.RegenerationCount)
}

func TestStorage_UpdateDraftResult(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "editor1", "editor1@example.com", "hash")

	id, err := storage.CreateDraft(ctx, models.Draft{
		UserUID: uid,
		Topic:   "Herança",
		Params:  models.GenerationParams{Topic: "Herança"},
	})
	require.NoError(t, err)

	newParams := models.GenerationParams{Topic: "Herança", Tone: "formal"}
	newResult := models.GenerationResult{
		Title: "Planejamento sucessório",
		Slug:  "planejamento-sucessorio",
		HTML:  "<p>novo texto</p>",
	}
	require.NoError(t, storage.UpdateDraftResult(ctx, id, newParams, newResult))

	got, err := storage.GetDraft(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, newParams, got.Params)
	require.NotNil(t, got.Result)
	assert.Equal(t, newResult.Title, got.Result.Title)
	assert.Equal(t, newResult.HTML, got.Result.HTML)
}

func TestStorage_MarkDraftPublished(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "editor1", "editor1@example.com", "hash")

	id, err := storage.CreateDraft(ctx, models.Draft{
		UserUID: uid,
		Topic:   "Trabalhista",
		Params:  models.GenerationParams{Topic: "Trabalhista"},
	})
	require.NoError(t, err)

	require.NoError(t, storage.MarkDraftPublished(ctx, id))

	got, err := storage.GetDraft(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Published)
}

func TestStorage_CountGenerationAttemptsToday(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "editor1", "editor1@example.com", "hash")
	otherUID := factory.CreateUser(t, "editor2", "editor2@example.com", "hash")

	count, err := storage.CountGenerationAttemptsToday(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	id, err := storage.CreateDraft(ctx, models.Draft{
		UserUID: uid,
		Topic:   "Imobiliário",
		Params:  models.GenerationParams{Topic: "Imobiliário"},
	})
	require.NoError(t, err)

	require.NoError(t, storage.LogGenerationAttempt(ctx, uid, id))
	require.NoError(t, storage.LogGenerationAttempt(ctx, uid, id))
	// Попытка без черновика: генерация не удалась до его создания
	require.NoError(t, storage.LogGenerationAttempt(ctx, uid, ""))
	require.NoError(t, storage.LogGenerationAttempt(ctx, otherUID, ""))

	count, err = storage.CountGenerationAttemptsToday(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = storage.CountGenerationAttemptsToday(ctx, otherUID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStorage_ArticleLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "editor1", "editor1@example.com", "hash")

	article := models.Article{
		AuthorUID:       uid,
		Title:           "Guia do inventário",
		Slug:            "guia-do-inventario",
		MetaTitle:       "Guia do inventário | Escritório",
		MetaDescription: "Passo a passo do inventário",
		HTML:            "<p>conteúdo</p>",
		FAQ: []models.FAQItem{
			{Question: "Quanto custa?", Answer: "Depende do patrimônio."},
		},
	}

	id, err := storage.CreateArticle(ctx, article)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := storage.GetArticle(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, article.Title, got.Title)
	assert.Equal(t, article.FAQ, got.FAQ)
	assert.False(t, got.Published)
	assert.Nil(t, got.PublishedAt)

	// Неопубликованная статья недоступна по слагу
	bySlug, err := storage.GetPublishedArticleBySlug(ctx, article.Slug)
	require.NoError(t, err)
	assert.Nil(t, bySlug)

	affected, err := storage.SetArticlePublished(ctx, id, true)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	bySlug, err = storage.GetPublishedArticleBySlug(ctx, article.Slug)
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, id, bySlug.ID)
	require.NotNil(t, bySlug.PublishedAt)

	// Снятие с публикации очищает момент публикации
	affected, err = storage.SetArticlePublished(ctx, id, false)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	got, err = storage.GetArticle(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Published)
	assert.Nil(t, got.PublishedAt)

	affected, err = storage.UpdateArticle(ctx, models.Article{
		Title: "Guia atualizado",
		Slug:  "guia-atualizado",
		HTML:  "<p>novo conteúdo</p>",
	}, id)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	got, err = storage.GetArticle(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Guia atualizado", got.Title)
	assert.Equal(t, "guia-atualizado", got.Slug)

	affected, err = storage.RemoveArticle(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	got, err = storage.GetArticle(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_ListArticles(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid1 := factory.CreateUser(t, "editor1", "editor1@example.com", "hash")
	uid2 := factory.CreateUser(t, "editor2", "editor2@example.com", "hash")

	for i, slug := range []string{"artigo-um", "artigo-dois"} {
		_, err := storage.CreateArticle(ctx, models.Article{
			AuthorUID: uid1,
			Title:     slug,
			Slug:      slug,
			HTML:      "<p>texto</p>",
		})
		require.NoError(t, err, "article %d", i)
	}
	_, err := storage.CreateArticle(ctx, models.Article{
		AuthorUID: uid2,
		Title:     "artigo-tres",
		Slug:      "artigo-tres",
		HTML:      "<p>texto</p>",
	})
	require.NoError(t, err)

	byAuthor, err := storage.ListArticles(ctx, uid1, 10, 0)
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)

	all, err := storage.ListAllArticles(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	paged, err := storage.ListAllArticles(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, paged, 1)
}

func TestStorage_Leads(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	first, err := storage.CreateLead(ctx, models.Lead{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Phone:    "+55 11 99999-0000",
		Subject:  "Consulta trabalhista",
		Message:  "Preciso de orientação sobre rescisão.",
		SourceIP: "203.0.113.10",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	time.Sleep(10 * time.Millisecond)

	second, err := storage.CreateLead(ctx, models.Lead{
		Name:    "João Souza",
		Email:   "joao@example.com",
		Subject: "Divórcio",
		Message: "Gostaria de agendar uma consulta.",
	})
	require.NoError(t, err)

	leads, err := storage.ListLeads(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	// Новые обращения первыми
	assert.Equal(t, second, leads[0].ID)
	assert.Equal(t, first, leads[1].ID)
	assert.Equal(t, "Maria Silva", leads[1].Name)
	assert.Equal(t, "203.0.113.10", leads[1].SourceIP)

	paged, err := storage.ListLeads(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, first, paged[0].ID)
}
