// Package demoseed generates the rich demo catalog deterministically.
// No real integrations; everything is derived from a string seed so the
// same seed always reproduces the same wallet.
package demoseed

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"lazorwallet/internal/domain/entity"
	"lazorwallet/internal/pkg/seedrand"
)

// DefaultSeed is used when no seed is configured.
const DefaultSeed = "lazorkit-demo-seed"

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Options controls the generated catalog size and determinism.
type Options struct {
	Minimal bool
	Seed    string
	// Now anchors the generated timestamps; zero means time.Now().
	Now time.Time
}

// Data is a full generated catalog, applied wholesale to the store.
type Data struct {
	Pubkey   string
	Tokens   []entity.TokenHolding
	Devices  []entity.Device
	Apps     []entity.AppCard
	Activity []entity.Activity
}

type tokenDef struct {
	symbol      string
	amount      string
	priceUSD    float64
	change      float64
	mint        string
	totalSupply float64
}

// Fixed ordered token catalog. Minimal mode keeps the first four.
var tokenDefs = []tokenDef{
	{"SOL", "3.21", 182.1, 2.3, "So11111111111111111111111111111111111111112", 1_000_000_000},
	{"USDC", "248.56", 1.0, 0.0, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", 100_000_000_000},
	{"USDT", "50.0", 1.0, -0.1, "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", 100_000_000_000},
	{"BONK", "128420", 0.000014, 4.8, "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", 100_000_000_000_000},
	{"RAY", "210.3", 0.32, 1.5, "4k3Dyjzvzp8eMZWUXbBC7o7DqjP9r6o9S1h1E4Nxxawy", 555_000_000},
	{"JUP", "145.7", 0.82, 3.2, "JUP2jxv5wF9vA2r1xQv6u8JUP2jxv5wF9vA2r1xQv6u8", 1_000_000_000},
	{"ORCA", "92.5", 1.42, -0.8, "orcaEKTdK7fJ7P6RD2G8E3d4Dk5s6j7k8l9m0n1o2p", 100_000_000},
	{"mSOL", "1.02", 202.3, 1.1, "mSoLz11111111111111111111111111111111111111", 10_000_000},
	{"JitoSOL", "0.65", 205.9, 0.9, "JitoSo1111111111111111111111111111111111111", 8_000_000},
	{"PYTH", "312.0", 0.42, 2.7, "Pyth111111111111111111111111111111111111111", 10_000_000_000},
}

var devicePool = []entity.Device{
	{Name: "iPhone 15 Pro • iOS", Platform: entity.PlatformIOS, LastActive: "2h ago", Location: "Ho Chi Minh City"},
	{Name: "Pixel 8 • Android", Platform: entity.PlatformAndroid, LastActive: "yesterday", Location: "Hanoi"},
	{Name: "Safari • Web", Platform: entity.PlatformWeb, LastActive: "3d ago", Location: "Singapore"},
	{Name: "MacBook Pro • Web", Platform: entity.PlatformWeb, LastActive: "5d ago", Location: "Da Nang"},
}

var appNames = []string{
	"SolPay Mini", "Orbit DEX", "Nova Games", "RippleChat", "Keystone Tools", "Driftboard",
	"MintMuse", "LootLands", "TipTap Social", "Radiant Swap", "Juno Mail", "Tide Vault",
	"Aurora Lens", "Nebula Notes", "Torus ID", "Glacier Finance", "Prism Bridge", "Zest Markets",
	"Echo Streams", "Quanta Labs", "Mango Mail", "Nova Wallet Connect", "Helios Scan", "Anchor Cloud",
}

var appCategories = []entity.AppCategory{
	entity.CategoryDeFi, entity.CategorySocial, entity.CategoryGames, entity.CategoryTools,
}

var tagsPool = []string{
	"Payments", "DEX", "Trading", "NFT", "Gaming", "Tools", "Wallet", "Bridge", "Analytics", "Social",
}

var activityKinds = []entity.ActivityKind{
	entity.KindOnramp, entity.KindSwap, entity.KindSend, entity.KindDeposit,
}

// Generate builds a complete demo catalog from the options. Pure: the same
// seed and anchor time always produce the same data.
func Generate(opts Options) Data {
	seed := opts.Seed
	if seed == "" {
		seed = DefaultSeed
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	rand := seedrand.New(seed)

	return Data{
		Pubkey:   generatePubkey(rand),
		Tokens:   generateTokens(opts.Minimal),
		Devices:  generateDevices(opts.Minimal),
		Apps:     generateApps(opts.Minimal, seed, now),
		Activity: generateActivity(opts.Minimal, seed, now),
	}
}

// InitialState builds the initial wallet snapshot for the given demo flag:
// the populated demo catalog when enabled, an empty new-user state
// otherwise. This is what a reset restores and what migrations fall back to.
func InitialState(demoEnabled bool, opts Options) entity.WalletState {
	state := entity.WalletState{
		Fiat:         entity.FiatUSD,
		RateUSDToVND: 27000,
		Tokens:       []entity.TokenHolding{},
		Devices:      []entity.Device{},
		Apps:         []entity.AppCard{},
		Activity:     []entity.Activity{},
	}
	if !demoEnabled {
		return state
	}
	data := Generate(opts)
	state.HasPasskey = true
	state.HasWallet = true
	state.Pubkey = data.Pubkey
	state.Tokens = data.Tokens
	state.Devices = data.Devices
	state.Apps = data.Apps
	state.Activity = data.Activity
	return state
}

func generatePubkey(rand *seedrand.Rand) string {
	// Fake but plausible: fixed affixes around a random base36 body.
	body := make([]byte, 37)
	for i := range body {
		body[i] = base36Alphabet[rand.IntN(len(base36Alphabet))]
	}
	return "7gfV" + string(body) + "x9A"
}

func generateTokens(minimal bool) []entity.TokenHolding {
	defs := tokenDefs
	if minimal {
		defs = defs[:4]
	}
	tokens := make([]entity.TokenHolding, 0, len(defs))
	for _, d := range defs {
		tokens = append(tokens, entity.TokenHolding{
			Symbol:       d.symbol,
			Amount:       decimal.RequireFromString(d.amount),
			PriceUSD:     d.priceUSD,
			Change24hPct: d.change,
			Mint:         d.mint,
			TotalSupply:  d.totalSupply,
		})
	}
	return tokens
}

func generateDevices(minimal bool) []entity.Device {
	count := 4
	if minimal {
		count = 2
	}
	devices := make([]entity.Device, 0, count)
	for i := 0; i < count; i++ {
		d := devicePool[i%len(devicePool)]
		d.ID = fmt.Sprintf("dev_%d", i+1)
		devices = append(devices, d)
	}
	return devices
}

func generateApps(minimal bool, seed string, now time.Time) []entity.AppCard {
	count := len(appNames)
	if count < 24 {
		count = 24
	}
	if minimal {
		count = 8
	}
	apps := make([]entity.AppCard, 0, count)
	for i := 0; i < count; i++ {
		verified := i%3 == 0
		intro := "Discover rich features powered by Solana (demo)"
		if verified {
			intro = "Discover rich features powered by Solana (demo • Verified)"
		}
		tagRand := seedrand.New(fmt.Sprintf("%s-app-%d", seed, i))
		tags := make([]string, 3)
		for t := range tags {
			tags[t] = seedrand.Pick(tagRand, tagsPool)
		}
		apps = append(apps, entity.AppCard{
			ID:        strconv.Itoa(i + 1),
			Name:      appNames[i%len(appNames)],
			Intro:     intro,
			Category:  appCategories[i%len(appCategories)],
			Tags:      tags,
			Image:     "/placeholder.svg",
			Website:   "https://example.com",
			Verified:  verified,
			Rating:    4.1 + float64(i%8)*0.1,
			Installs:  fmt.Sprintf("%.1fk", 10+float64(i)*1.3),
			UpdatedAt: now.Add(-time.Duration(i+1) * 24 * time.Hour).Format(time.RFC3339),
			Version:   fmt.Sprintf("1.%d.%d", i%10, (i*3)%10),
		})
	}
	return apps
}

func generateActivity(minimal bool, seed string, now time.Time) []entity.Activity {
	count := 40
	if minimal {
		count = 12
	}
	tokens := generateTokens(minimal)
	activity := make([]entity.Activity, 0, count)
	for i := 0; i < count; i++ {
		kind := activityKinds[i%len(activityKinds)]
		ts := now.Add(-time.Duration(i) * 8 * time.Hour)
		token := tokens[i%len(tokens)].Symbol

		amountRoll := seedrand.New(fmt.Sprintf("%s-act-%d", seed, i)).Float64()
		amountF := float64(int(amountRoll*100*100)) / 100 // 2dp
		if amountF < 1 {
			amountF = 1
		}
		amount := decimal.NewFromFloat(amountF)

		statusRoll := int(seedrand.New(fmt.Sprintf("%s-status-%d", seed, i)).Float64() * 100)
		status := entity.StatusSuccess
		switch {
		case statusRoll < 5:
			status = entity.StatusFailed
		case statusRoll < 15:
			status = entity.StatusPending
		}

		act := entity.Activity{
			ID:     fmt.Sprintf("act_%d", i+1),
			Kind:   kind,
			TS:     ts.Format(time.RFC3339),
			Amount: amount,
			Token:  token,
			Status: status,
		}

		switch kind {
		case entity.KindOnramp:
			act.OrderID = "ord_" + strconv.FormatInt(now.UnixMilli()-int64(i), 36)
			act.Summary = fmt.Sprintf("Bought %s %s with $%s", amount, token, amount.StringFixed(2))
		case entity.KindSwap:
			received := amount.Mul(decimal.NewFromFloat(0.97))
			act.Summary = fmt.Sprintf("Swapped %s %s for %s USDC", amount, token, received.StringFixed(2))
		case entity.KindSend:
			cp := counterpartyStub(seedrand.New(fmt.Sprintf("%s-cp-%d", seed, i)))
			act.Counterparty = cp
			act.Summary = fmt.Sprintf("Sent %s %s to %s", amount, token, cp)
		default:
			act.Summary = fmt.Sprintf("Deposited %s %s", amount, token)
		}
		activity = append(activity, act)
	}
	return activity
}

func counterpartyStub(rand *seedrand.Rand) string {
	part := func() string {
		buf := make([]byte, 4)
		for i := range buf {
			buf[i] = base36Alphabet[rand.IntN(len(base36Alphabet))]
		}
		return string(buf)
	}
	return part() + "..." + part()
}
