// Package advisor implements the analysis, apply and generation use cases.
package advisor

import (
	"context"
	"strings"
	"time"

	"advisor_server/core/domain"
	"advisor_server/core/port/in"
	"advisor_server/core/port/out"
	"advisor_server/core/service/apply"
	"advisor_server/core/service/knowledge"
	"advisor_server/core/service/parser"
	"advisor_server/core/service/prompt"
	"advisor_server/core/service/recommendation"
	"advisor_server/core/service/scoring"
	"advisor_server/pkg/apperr"
	"advisor_server/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// Base score sources.
const (
	ScoreSourceDeterministic = "deterministic"
	ScoreSourceAI            = "ai"
)

// MaxBatchElements caps one batch generation request.
const MaxBatchElements = 10

// Config tunes the service.
type Config struct {
	ScoreSource  string
	ImageWorkers int
	Canvas       domain.Bounds
	SessionTTL   time.Duration
}

// Deps are the service's collaborators. Knowledge and Document are
// required; a nil AI port disables the features that need it.
type Deps struct {
	Knowledge  *knowledge.KnowledgeBase
	Scoring    *scoring.Engine
	Classifier *recommendation.Classifier
	Document   out.Document
	Text       out.TextGenerator
	Images     out.ImageGenerator
	Translator out.Translator
	Cache      out.AnalysisCache
	Sessions   *SessionStore
}

// Service implements in.AdvisorUseCase.
type Service struct {
	cfg        Config
	kb         *knowledge.KnowledgeBase
	scoring    *scoring.Engine
	classifier *recommendation.Classifier
	apply      *apply.Orchestrator
	doc        out.Document
	text       out.TextGenerator
	translator out.Translator
	cache      out.AnalysisCache
	sessions   *SessionStore

	analysisFlight singleflight.Group
}

var _ in.AdvisorUseCase = (*Service)(nil)

// NewService wires the service.
func NewService(deps Deps, cfg Config) *Service {
	if cfg.ScoreSource == "" {
		cfg.ScoreSource = ScoreSourceDeterministic
	}
	if cfg.ImageWorkers < 1 {
		cfg.ImageWorkers = 1
	}
	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		cfg.Canvas = domain.CanvasDescriptor().Bounds
	}

	s := &Service{
		cfg:        cfg,
		kb:         deps.Knowledge,
		scoring:    deps.Scoring,
		classifier: deps.Classifier,
		doc:        deps.Document,
		text:       deps.Text,
		translator: deps.Translator,
		cache:      deps.Cache,
		sessions:   deps.Sessions,
	}
	if s.kb == nil {
		s.kb = knowledge.MustLoad()
	}
	if s.scoring == nil {
		s.scoring = scoring.NewEngine(s.kb, 0)
	}
	if s.classifier == nil {
		s.classifier = recommendation.NewClassifier()
	}
	if s.sessions == nil {
		s.sessions = NewSessionStore(cfg.SessionTTL)
	}
	s.apply = apply.NewOrchestrator(apply.Deps{
		Document:   deps.Document,
		Translator: deps.Translator,
		Text:       deps.Text,
		Images:     deps.Images,
		Knowledge:  s.kb,
		Classifier: s.classifier,
	})
	return s
}

// language defaults to the region's primary language.
func (s *Service) language(region, language string) string {
	if strings.TrimSpace(language) != "" {
		return s.kb.CanonicalLanguage(language)
	}
	if r, ok := s.kb.Region(region); ok {
		return r.PrimaryLanguage()
	}
	return "English"
}

func (s *Service) regionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.MissingField("region")
	}
	if r, ok := s.kb.Region(name); ok {
		return r.Name, nil
	}
	return name, nil
}

// =============================================================================
// Analysis
// =============================================================================

// Analyze scores an element and asks the AI for suggestions. AI failures
// degrade to no suggestions with the deterministic score.
func (s *Service) Analyze(ctx context.Context, req *in.AnalyzeRequest) (*in.AnalyzeResult, error) {
	region, err := s.regionName(req.Region)
	if err != nil {
		return nil, err
	}
	language := s.language(region, req.Language)

	el, err := s.element(ctx, req.Element)
	if err != nil {
		return nil, err
	}

	sess, _ := s.sessions.GetOrCreate(req.SessionID)
	ctx = logger.ContextWithSessionID(ctx, sess.ID)
	log := logger.WithContext(ctx).WithFields(map[string]any{"region": region, "language": language})

	breakdown := s.scoring.Compute(el, region, language)

	resp, cached, aiErr := s.analyzeWithAI(ctx, region, language, el)
	degraded := aiErr != nil
	if degraded {
		log.WithError(aiErr).Warn("AI analysis unavailable, using deterministic score only")
		resp = &domain.AnalysisResponse{Score: parser.DefaultScore}
	}

	base := breakdown.Total
	if s.cfg.ScoreSource == ScoreSourceAI && !degraded {
		base = resp.Score
	}
	sess.Score.ResetBase(base)
	s.sessions.Remember(sess, region, language)

	result := &in.AnalyzeResult{
		SessionID:       sess.ID,
		Region:          region,
		Language:        language,
		Element:         el,
		Breakdown:       breakdown,
		AIScore:         resp.Score,
		BaseScore:       scoring.Clamp(base),
		Score:           sess.Score.Current(),
		Analysis:        resp.Analysis,
		Suggestions:     s.views(sess, resp.Suggestions()),
		Recommendations: resp.Recommendations,
		Cached:          cached,
		Degraded:        degraded,
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}
	log.WithFields(map[string]any{"score": result.Score, "suggestions": len(result.Suggestions), "cached": cached}).Info("analysis complete")
	return result, nil
}

func (s *Service) views(sess *Session, suggestions []domain.Suggestion) []in.SuggestionView {
	views := make([]in.SuggestionView, 0, len(suggestions))
	for _, sg := range suggestions {
		id := sg.ID()
		views = append(views, in.SuggestionView{
			ID:                id,
			Applied:           sess.Score.IsApplied(id),
			SuggestionPayload: domain.PayloadOf(sg),
		})
	}
	return views
}

// element picks the request element, else the first selected node, else
// the canvas. Other text nodes in the document become siblings.
func (s *Service) element(ctx context.Context, given *domain.ElementDescriptor) (domain.ElementDescriptor, error) {
	if given != nil {
		el := *given
		if el.Kind == "" {
			el.Kind = domain.ElementShape
			if el.TextContent != nil {
				el.Kind = domain.ElementText
			}
		}
		return el, nil
	}
	if s.doc == nil {
		return domain.CanvasDescriptor(), nil
	}

	sel, err := s.doc.Selection(ctx)
	if err != nil {
		return domain.ElementDescriptor{}, apperr.ExternalServiceFailure("editor", err)
	}
	texts, err := s.doc.TextNodes(ctx)
	if err != nil {
		return domain.ElementDescriptor{}, apperr.ExternalServiceFailure("editor", err)
	}

	var primary *out.Node
	if len(sel) > 0 {
		primary = &sel[0]
	}
	others := append(append([]out.Node{}, sel...), texts...)
	return DescriptorFromNodes(primary, dedupe(others)), nil
}

func dedupe(nodes []out.Node) []out.Node {
	seen := make(map[string]struct{}, len(nodes))
	uniq := nodes[:0]
	for _, n := range nodes {
		if _, ok := seen[n.ID]; ok {
			continue
		}
		seen[n.ID] = struct{}{}
		uniq = append(uniq, n)
	}
	return uniq
}

// analyzeWithAI returns a cached or fresh parsed response. Identical
// concurrent analyses share one AI call.
func (s *Service) analyzeWithAI(ctx context.Context, region, language string, el domain.ElementDescriptor) (*domain.AnalysisResponse, bool, error) {
	if s.text == nil {
		return nil, false, apperr.Unavailable("AI text generation")
	}
	key := fingerprint(region, language, el)

	if s.cache != nil && key != "" {
		if resp, ok := s.cache.Get(ctx, key); ok {
			return resp, true, nil
		}
	}

	v, err, _ := s.analysisFlight.Do(key, func() (any, error) {
		raw, err := s.text.Generate(ctx, prompt.AnalystPersona, prompt.Analysis(prompt.InputFromElement(region, language, el)))
		if err != nil {
			return nil, err
		}
		resp := parser.ParseAnalysisResponse(raw)
		if s.cache != nil && key != "" {
			if err := s.cache.Set(ctx, key, &resp); err != nil {
				logger.WithContext(ctx).WithError(err).Warn("analysis cache write failed")
			}
		}
		return &resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*domain.AnalysisResponse), false, nil
}

// Score computes the deterministic breakdown only.
func (s *Service) Score(ctx context.Context, req *in.ScoreRequest) (*domain.ScoreBreakdown, error) {
	region, err := s.regionName(req.Region)
	if err != nil {
		return nil, err
	}
	el, err := s.element(ctx, req.Element)
	if err != nil {
		return nil, err
	}
	b := s.scoring.Compute(el, region, s.language(region, req.Language))
	return &b, nil
}

// SessionScore returns a session's score state.
func (s *Service) SessionScore(_ context.Context, sessionID string) (*domain.ScoreSnapshot, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, apperr.NotFound("session")
	}
	snap := sess.Score.Snapshot()
	return &snap, nil
}

// =============================================================================
// Apply
// =============================================================================

func (s *Service) applyContext(region, language string, hints bool) apply.Context {
	return apply.Context{Region: region, Language: language, UseAIHints: hints, Canvas: s.cfg.Canvas}
}

// ClassifyRecommendation classifies without applying.
func (s *Service) ClassifyRecommendation(_ context.Context, text string) (*domain.ClassifiedRecommendation, error) {
	parsed, err := s.classifier.Classify(text)
	if err != nil {
		return nil, err
	}
	c := domain.Describe(parsed)
	return &c, nil
}

// ApplyRecommendation classifies and applies one recommendation.
// Recommendations earn no score bonus.
func (s *Service) ApplyRecommendation(ctx context.Context, req *in.ApplyRecommendationRequest) (*in.ApplyResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.MissingField("text")
	}
	sess, _ := s.sessions.GetOrCreate(req.SessionID)
	ctx = logger.ContextWithSessionID(ctx, sess.ID)
	region := strings.TrimSpace(req.Region)
	language := s.language(region, req.Language)

	parsed, res, err := s.apply.ApplyRecommendation(ctx, req.Text, s.applyContext(region, language, req.UseAIHints))
	if err != nil {
		return nil, err
	}
	classified := domain.Describe(parsed)
	snap := sess.Score.Snapshot()
	return &in.ApplyResult{
		Kind:       res.Kind,
		Message:    res.Message,
		Nodes:      res.Nodes,
		Classified: &classified,
		Score:      &snap,
	}, nil
}

// ApplySuggestion applies a parsed suggestion and awards the bonus once
// per suggestion id. A repeated apply mutates the document again but earns
// nothing.
func (s *Service) ApplySuggestion(ctx context.Context, req *in.ApplySuggestionRequest) (*in.ApplyResult, error) {
	sg, err := req.Suggestion.ToSuggestion()
	if err != nil {
		return nil, apperr.BadRequest(err.Error())
	}
	sess, _ := s.sessions.GetOrCreate(req.SessionID)
	ctx = logger.ContextWithSessionID(ctx, sess.ID)
	lastRegion, lastLanguage := s.sessions.Context(sess)
	region := strings.TrimSpace(req.Region)
	if region == "" {
		region = lastRegion
	}
	language := req.Language
	if language == "" {
		language = lastLanguage
	}

	res, err := s.apply.ApplySuggestion(ctx, sg, s.applyContext(region, s.language(region, language), false))
	if err != nil {
		return nil, err
	}

	id := sg.ID()
	result := &in.ApplyResult{
		Kind:         res.Kind,
		Message:      res.Message,
		Nodes:        res.Nodes,
		SuggestionID: id,
	}
	if domain.AwardsBonus(sg) {
		result.BonusAwarded = sess.Score.OnSuggestionApplied(id)
		result.AlreadyApplied = !result.BonusAwarded
	}
	snap := sess.Score.Snapshot()
	result.Score = &snap

	logger.WithContext(ctx).WithFields(map[string]any{
		"suggestion_id": id,
		"bonus":         result.BonusAwarded,
		"score":         snap.Current,
	}).Info("suggestion applied")
	return result, nil
}

// =============================================================================
// Lookup / translation
// =============================================================================

// Regions lists every region in knowledge-base order.
func (s *Service) Regions(_ context.Context) []domain.RegionProfile {
	return s.kb.Regions()
}

// Region looks up one region by name.
func (s *Service) Region(_ context.Context, name string) (*domain.RegionProfile, error) {
	r, ok := s.kb.Region(name)
	if !ok {
		return nil, apperr.NotFound("region").WithDetail("name", name)
	}
	return &r, nil
}

// Translate passes text to the translation port. Equal language codes
// return the text untouched without a call.
func (s *Service) Translate(ctx context.Context, req *in.TranslateRequest) (*in.TranslateResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperr.MissingField("text")
	}
	source := req.Source
	if source == "" {
		source = "English"
	}
	result := &in.TranslateResult{
		Text:       text,
		SourceCode: s.kb.LanguageCode(source),
		TargetCode: s.kb.LanguageCode(req.Target),
	}
	if result.SourceCode == result.TargetCode {
		return result, nil
	}
	if s.translator == nil {
		return nil, apperr.Unavailable("translation")
	}

	translated, err := s.translator.Translate(ctx, text, result.SourceCode, result.TargetCode)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, apperr.ExternalServiceFailure("translation", err)
	}
	result.Text = translated
	result.Translated = true
	return result, nil
}
