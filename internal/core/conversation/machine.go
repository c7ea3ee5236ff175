package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"recipe-bot/internal/core/callback"
	"recipe-bot/internal/core/recipe"
	"recipe-bot/internal/infrastructure/storage"
	"recipe-bot/internal/pkg/common"
)

// Assistant is the AI surface the entry flow needs. *service.Service
// satisfies it.
type Assistant interface {
	ClassifyIngredients(ctx context.Context, lines []string) []recipe.Ingredient
	DetermineCategory(ctx context.Context, ingredients []recipe.Ingredient) recipe.Category
	SuggestTitle(ctx context.Context, names []string, category recipe.Category) string
	FormatRecipe(ctx context.Context, r recipe.Recipe) (string, error)
}

// Button is one inline keyboard button.
type Button struct {
	Text string
	Data string
}

// Reply is one outgoing message. When PhotoFileID is set Text is its
// caption.
type Reply struct {
	Text        string
	PhotoFileID string
	Keyboard    [][]Button
}

func text(format string, args ...interface{}) Reply {
	if len(args) == 0 {
		return Reply{Text: format}
	}
	return Reply{Text: fmt.Sprintf(format, args...)}
}

// Machine implements the entry flow. It returns replies instead of sending
// them. Errors are store failures only; every input problem becomes a reply.
type Machine struct {
	sessions *SessionStore
	store    storage.Store[recipe.Recipe]
	ai       Assistant

	now   func() time.Time
	newID func() string
}

func NewMachine(sessions *SessionStore, store storage.Store[recipe.Recipe], ai Assistant) *Machine {
	return &Machine{
		sessions: sessions,
		store:    store,
		ai:       ai,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    common.GenerateUUID,
	}
}

// HandleText routes free text by the user's current state.
func (m *Machine) HandleText(ctx context.Context, userID int64, input string) ([]Reply, error) {
	sess := m.sessions.Get(userID)

	switch sess.State {
	case StateIdle:
		return m.startDraft(ctx, sess, input), nil
	case StateAddingTitle:
		return m.setTitle(ctx, sess, input), nil
	default:
		return []Reply{text(msgFinishStep)}, nil
	}
}

func (m *Machine) startDraft(ctx context.Context, sess *Session, input string) []Reply {
	lines := recipe.SplitIngredientLines(input)
	if len(lines) == 0 {
		return []Reply{text(msgEmptyIngredients)}
	}

	classified := m.ai.ClassifyIngredients(ctx, lines)
	sess.Classified = classified
	sess.Draft = &recipe.Recipe{
		UserID:      sess.UserID,
		Ingredients: classified,
		CreatedAt:   m.now(),
	}
	sess.State = StateSelectingCategory

	suggested := m.ai.DetermineCategory(ctx, classified)
	common.LogDebug("Draft started",
		zap.Int64("user_id", sess.UserID),
		zap.Int("ingredients", len(classified)),
		zap.String("suggested_category", string(suggested)),
	)

	items := make([]string, len(classified))
	for i, ing := range classified {
		items[i] = "• " + recipe.FormatIngredient(ing)
	}
	return []Reply{
		text(msgIngredientsParsed, strings.Join(items, "\n")),
		{
			Text:     msgChooseCategory + "\n" + msgSuggestedCategory,
			Keyboard: categoryKeyboard(suggested),
		},
	}
}

// categoryKeyboard lays the nine categories out three per row and marks
// the suggested one.
func categoryKeyboard(suggested recipe.Category) [][]Button {
	var rows [][]Button
	var row []Button
	for _, c := range recipe.Categories {
		label := c.DisplayName()
		if c == suggested {
			label = "★ " + label
		}
		row = append(row, Button{Text: label, Data: callback.CategoryData(string(c))})
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// SelectCategory handles a category button press.
func (m *Machine) SelectCategory(ctx context.Context, userID int64, token string) ([]Reply, error) {
	sess := m.sessions.Get(userID)
	if sess.Draft == nil {
		return []Reply{text(msgNoActiveDraft)}, nil
	}
	if sess.State != StateSelectingCategory {
		return []Reply{text(msgFinishStep)}, nil
	}

	category, ok := recipe.ParseCategory(token)
	if !ok {
		return []Reply{text(msgUnknownCategory)}, nil
	}
	sess.Draft.Category = category

	suggestion := m.ai.SuggestTitle(ctx, recipe.IngredientNames(sess.Classified), category)
	sess.State = StateAddingTitle

	var sb strings.Builder
	fmt.Fprintf(&sb, "Категория: %s\n\n", category.DisplayName())
	if suggestion != recipe.UntitledTitle {
		fmt.Fprintf(&sb, msgTitleSuggestion+"\n\n", suggestion)
		sb.WriteString(msgTitleInstructions)
	} else {
		sb.WriteString(msgTitleNoSuggestion)
	}
	return []Reply{{Text: sb.String()}}, nil
}

func isAcceptPhrase(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range acceptPhrases {
		if s == p {
			return true
		}
	}
	return false
}

func (m *Machine) setTitle(ctx context.Context, sess *Session, input string) []Reply {
	title := strings.TrimSpace(input)
	if title == "" {
		return []Reply{text(msgEmptyTitle)}
	}

	if isAcceptPhrase(title) {
		title = m.ai.SuggestTitle(ctx, recipe.IngredientNames(sess.Classified), sess.Draft.Category)
	} else if utf8.RuneCountInString(title) > recipe.MaxTitleLength {
		return []Reply{text(msgTitleTooLong, recipe.MaxTitleLength)}
	}

	sess.Draft.Title = title
	sess.State = StateAddingPhoto
	return []Reply{text(msgAskPhoto, title)}
}

// HandlePhoto attaches photo and saves the draft. It is rejected outside
// the photo step.
func (m *Machine) HandlePhoto(ctx context.Context, userID int64, photo recipe.Photo) ([]Reply, error) {
	sess := m.sessions.Get(userID)
	if sess.State != StateAddingPhoto || sess.Draft == nil {
		return []Reply{text(msgSendIngredients)}, nil
	}
	sess.Draft.Photo = &photo
	return m.finalize(ctx, sess)
}

// HandleSkip saves the draft without a photo.
func (m *Machine) HandleSkip(ctx context.Context, userID int64) ([]Reply, error) {
	sess := m.sessions.Get(userID)
	if sess.State != StateAddingPhoto || sess.Draft == nil {
		return []Reply{text(msgNothingToSkip)}, nil
	}
	sess.Draft.Photo = nil
	return m.finalize(ctx, sess)
}

func (m *Machine) finalize(ctx context.Context, sess *Session) ([]Reply, error) {
	r := *sess.Draft
	r.ID = m.newID()
	r.UpdatedAt = m.now()

	if err := m.store.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	m.sessions.Reset(sess.UserID)

	common.LogInfo("Recipe saved",
		zap.Int64("user_id", r.UserID),
		zap.String("recipe_id", r.ID),
		zap.String("category", string(r.Category)),
	)

	body, err := m.ai.FormatRecipe(ctx, r)
	if err != nil {
		common.LogWarn("Recipe formatting fell back to plain text", zap.String("recipe_id", r.ID), zap.Error(err))
		body = recipe.PlainText(r)
	}

	return []Reply{recipeReply(r, body), text(msgAnotherRecipe)}, nil
}

func recipeReply(r recipe.Recipe, body string) Reply {
	reply := Reply{
		Text:     body,
		Keyboard: [][]Button{{{Text: btnDelete, Data: callback.DeleteData(r.ID)}}},
	}
	if r.Photo != nil {
		reply.PhotoFileID = r.Photo.FileID
	}
	return reply
}

// HandleCancel drops any draft or pending deletion.
func (m *Machine) HandleCancel(ctx context.Context, userID int64) ([]Reply, error) {
	sess := m.sessions.Get(userID)
	if sess.State == StateIdle && sess.PendingDelete == "" {
		m.sessions.Reset(userID)
		return []Reply{text(msgNothingToCancel)}, nil
	}
	m.sessions.Reset(userID)
	return []Reply{text(msgCancelled)}, nil
}

// owned loads id and checks that userID owns it. A nil reply means the
// caller may proceed.
func (m *Machine) owned(ctx context.Context, userID int64, id string) (recipe.Recipe, *Reply, error) {
	r, ok, err := m.store.Get(ctx, id)
	if err != nil {
		return recipe.Recipe{}, nil, fmt.Errorf("failed to load recipe %s: %w", id, err)
	}
	if !ok {
		reply := text(msgRecipeNotFound)
		return recipe.Recipe{}, &reply, nil
	}
	if !r.OwnedBy(userID) {
		common.LogWarn("Access to foreign recipe denied", zap.Int64("user_id", userID), zap.String("recipe_id", id))
		reply := text(msgAccessDenied)
		return recipe.Recipe{}, &reply, nil
	}
	return r, nil, nil
}

// RequestDelete asks the owner to confirm deleting id.
func (m *Machine) RequestDelete(ctx context.Context, userID int64, id string) ([]Reply, error) {
	r, deny, err := m.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if deny != nil {
		return []Reply{*deny}, nil
	}

	m.sessions.Get(userID).PendingDelete = id
	return []Reply{{
		Text: fmt.Sprintf(msgConfirmDelete, r.Title),
		Keyboard: [][]Button{{
			{Text: btnYes, Data: callback.YesData()},
			{Text: btnNo, Data: callback.NoData()},
		}},
	}}, nil
}

// ConfirmDelete deletes the pending recipe.
func (m *Machine) ConfirmDelete(ctx context.Context, userID int64) ([]Reply, error) {
	sess := m.sessions.Get(userID)
	id := sess.PendingDelete
	if id == "" {
		return []Reply{text(msgNothingPending)}, nil
	}

	deleted, err := m.store.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	m.clearPending(sess)

	if !deleted {
		return []Reply{text(msgRecipeNotFound)}, nil
	}
	common.LogInfo("Recipe deleted", zap.Int64("user_id", userID), zap.String("recipe_id", id))
	return []Reply{text(msgDeleted)}, nil
}

// DeclineDelete keeps the pending recipe.
func (m *Machine) DeclineDelete(ctx context.Context, userID int64) ([]Reply, error) {
	sess := m.sessions.Get(userID)
	if sess.PendingDelete == "" {
		return []Reply{text(msgNothingPending)}, nil
	}
	m.clearPending(sess)
	return []Reply{text(msgDeleteCancelled)}, nil
}

// clearPending forgets the deletion target. An idle session has nothing
// else worth keeping, so it is dropped.
func (m *Machine) clearPending(sess *Session) {
	sess.PendingDelete = ""
	if sess.State == StateIdle {
		m.sessions.Reset(sess.UserID)
	}
}

// ListRecipes shows the user's own recipes, newest first.
func (m *Machine) ListRecipes(ctx context.Context, userID int64) ([]Reply, error) {
	all, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	var rows [][]Button
	for _, r := range all {
		if !r.OwnedBy(userID) {
			continue
		}
		label := fmt.Sprintf("%s · %s", r.Title, r.Category.DisplayName())
		rows = append(rows, []Button{{Text: label, Data: callback.ViewData(r.ID)}})
	}
	if len(rows) == 0 {
		return []Reply{text(msgNoRecipes)}, nil
	}
	return []Reply{{Text: fmt.Sprintf(msgRecipeListHeader, len(rows)), Keyboard: rows}}, nil
}

// ViewRecipe renders one of the user's recipes.
func (m *Machine) ViewRecipe(ctx context.Context, userID int64, id string) ([]Reply, error) {
	r, deny, err := m.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if deny != nil {
		return []Reply{*deny}, nil
	}
	return []Reply{recipeReply(r, recipe.PlainText(r))}, nil
}
