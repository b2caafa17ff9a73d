// Package marketplace composes the ledger with the optional bond gateway
// and trade archive. The ledger is the single source of truth; gateway
// calls and archive appends are best effort and never block settlement.
package marketplace

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"assetra/internal/chain"
	"assetra/internal/domain"
	"assetra/internal/ledger"
	"assetra/internal/observability"
	"assetra/internal/storage"
)

// Defaults applied to onboarding requests that leave fields blank.
const (
	DefaultName     = "Untitled Token"
	DefaultSymbol   = "TOKEN"
	DefaultDecimals = 2
	DefaultSupply   = 1000000
	DefaultPrice    = 1000
	DefaultSector   = "Finance"
)

// Gateway is the subset of the bond-contract gateway the service uses.
type Gateway interface {
	ConfigureBond(ctx context.Context, cfg chain.BondConfig) (*chain.TxReceipt, error)
	TokenizeBond(ctx context.Context, isin string, tokensToIssue int64) (*chain.TxReceipt, error)
	PurchaseBondTokens(ctx context.Context, isin string, amount, value float64) (*chain.TxReceipt, error)
}

// Service exposes the marketplace operations backed by the ledger.
type Service struct {
	ledger  *ledger.Store
	gateway Gateway              // nil when the chain gateway is disabled
	archive storage.TradeArchive // nil when no trade tape is configured
	logger  *zap.Logger
}

// NewService creates a marketplace service. gateway and archive may be nil.
func NewService(store *ledger.Store, gateway Gateway, archive storage.TradeArchive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ledger:  store,
		gateway: gateway,
		archive: archive,
		logger:  logger,
	}
}

// OnboardToken fills in wizard defaults and creates the token in the
// ledger. For bond tokens it also submits configureBond and tokenizeBond
// to the gateway; gateway failures are logged and do not fail onboarding.
func (s *Service) OnboardToken(ctx context.Context, spec domain.TokenSpec) (*domain.Token, error) {
	applyDefaults(&spec)

	token, err := s.ledger.CreateToken(ctx, spec)
	if err != nil {
		return nil, err
	}
	observability.RecordTokenCreated()
	s.logger.Info("token onboarded",
		zap.String("token_id", token.ID),
		zap.String("symbol", token.Symbol),
		zap.String("type", token.Type.String()))

	if s.gateway != nil && token.Type == domain.TokenTypeBond {
		s.registerBond(ctx, token)
	}
	return token, nil
}

// registerBond submits the bond configuration and tokenization to the
// gateway. Both calls are best effort.
func (s *Service) registerBond(ctx context.Context, token *domain.Token) {
	cfg := chain.BondConfig{
		ISIN:                   token.ISIN,
		NumberOfBondUnits:      int64(token.TotalSupply),
		NominalValue:           token.Price,
		TotalValue:             token.Price * token.TotalSupply,
		InvestmentAmount:       token.Price * token.TotalSupply,
		FractionalDenomination: token.Price,
		StartDate:              token.CreatedAt.Unix(),
		MaturityDate:           token.CreatedAt.AddDate(5, 0, 0).Unix(),
	}

	start := time.Now()
	receipt, err := s.gateway.ConfigureBond(ctx, cfg)
	observability.RecordChainCall("configureBond", time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Warn("configureBond failed, continuing without chain registration",
			zap.String("isin", token.ISIN), zap.Error(err))
		return
	}
	s.logger.Info("bond configured", zap.String("isin", token.ISIN), zap.String("tx", receipt.TxHash))

	start = time.Now()
	receipt, err = s.gateway.TokenizeBond(ctx, token.ISIN, int64(token.TotalSupply))
	observability.RecordChainCall("tokenizeBond", time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Warn("tokenizeBond failed",
			zap.String("isin", token.ISIN), zap.Error(err))
		return
	}
	s.logger.Info("bond tokenized", zap.String("isin", token.ISIN), zap.String("tx", receipt.TxHash))
}

// ListForTrading marks a token as listed at the given price.
func (s *Service) ListForTrading(ctx context.Context, tokenID string, price float64) (*domain.Token, error) {
	token, err := s.ledger.ListToken(ctx, tokenID, price)
	if err != nil {
		return nil, err
	}
	observability.RecordTokenListed()
	s.logger.Info("token listed",
		zap.String("token_id", token.ID),
		zap.Float64("price", price))
	return token, nil
}

// ExecuteTrade settles a trade in the ledger. Buys are additionally
// forwarded to the gateway, and every settled trade is appended to the
// trade tape when an archive is configured.
func (s *Service) ExecuteTrade(ctx context.Context, spec domain.TradeSpec) (*domain.Trade, error) {
	trade, err := s.ledger.CreateTrade(ctx, spec)
	if err != nil {
		observability.RecordTradeRejected(rejectReason(err))
		return nil, err
	}
	observability.RecordTradeSettled(trade.Type.String())
	s.logger.Info("trade settled",
		zap.String("trade_id", trade.ID),
		zap.String("token_id", trade.TokenID),
		zap.String("type", trade.Type.String()),
		zap.Float64("amount", trade.Amount))

	if s.gateway != nil && trade.Type == domain.TradeTypeBuy {
		s.forwardPurchase(ctx, trade)
	}
	if s.archive != nil {
		if err := s.archive.Append(ctx, []*domain.Trade{trade}); err != nil {
			observability.RecordArchiveError()
			s.logger.Warn("trade tape append failed",
				zap.String("trade_id", trade.ID), zap.Error(err))
		}
	}
	return trade, nil
}

// forwardPurchase submits a settled buy to the gateway's purchase call.
func (s *Service) forwardPurchase(ctx context.Context, trade *domain.Trade) {
	isin := trade.TokenID
	if token := s.findToken(trade.TokenID); token != nil && token.ISIN != "" {
		isin = token.ISIN
	}

	start := time.Now()
	receipt, err := s.gateway.PurchaseBondTokens(ctx, isin, trade.Amount, trade.Amount*trade.Price)
	observability.RecordChainCall("purchaseBondTokens", time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Warn("purchaseBondTokens failed",
			zap.String("trade_id", trade.ID), zap.Error(err))
		return
	}
	s.logger.Debug("purchase forwarded",
		zap.String("trade_id", trade.ID), zap.String("tx", receipt.TxHash))
}

func (s *Service) findToken(tokenID string) *domain.Token {
	for _, t := range s.ledger.GetTokens() {
		if t.ID == tokenID {
			return t
		}
	}
	return nil
}

// Tokens returns every token in the ledger.
func (s *Service) Tokens() []*domain.Token {
	return s.ledger.GetTokens()
}

// ListedTokens returns the tokens available for trading.
func (s *Service) ListedTokens() []*domain.Token {
	return s.ledger.GetListedTokens()
}

// NSETokens returns the demonstration catalog held by the NSE account.
func (s *Service) NSETokens() []*domain.Token {
	return s.ledger.GetNSETokens()
}

// UserTokens returns tokens the user owns or has bought.
func (s *Service) UserTokens(userID string) []*domain.Token {
	return s.ledger.GetUserTokens(userID)
}

// UserTrades returns trades where the user is buyer or seller.
func (s *Service) UserTrades(userID string) []*domain.Trade {
	return s.ledger.GetUserTrades(userID)
}

// TokenTrades returns the trade history of one token.
func (s *Service) TokenTrades(tokenID string) []*domain.Trade {
	return s.ledger.GetTokenTrades(tokenID)
}

// Search filters listed tokens by a free-text query and optional type.
func (s *Service) Search(query string, typ domain.TokenType) []*domain.Token {
	return s.ledger.SearchTokens(query, typ)
}

// applyDefaults fills blank onboarding fields with wizard defaults.
func applyDefaults(spec *domain.TokenSpec) {
	if spec.Name == "" {
		spec.Name = DefaultName
	}
	if spec.Symbol == "" {
		spec.Symbol = DefaultSymbol
	}
	if spec.Decimals == 0 {
		spec.Decimals = DefaultDecimals
	}
	if spec.ISIN == "" {
		spec.ISIN = uuid.NewString()
	}
	if spec.TotalSupply == 0 {
		spec.TotalSupply = DefaultSupply
	}
	if spec.AvailableSupply == 0 {
		spec.AvailableSupply = spec.TotalSupply
	}
	if spec.Price == 0 {
		spec.Price = DefaultPrice
	}
	if !spec.Type.IsValid() {
		spec.Type = domain.TokenTypeBond
	}
	if spec.Sector == "" {
		spec.Sector = DefaultSector
	}
}

// rejectReason maps a settlement error to a metrics label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrTokenNotFound):
		return "not_found"
	case errors.Is(err, ledger.ErrInsufficientSupply):
		return "insufficient_supply"
	case errors.Is(err, ledger.ErrInvalidTrade):
		return "invalid_trade"
	default:
		return "other"
	}
}
