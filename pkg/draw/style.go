package draw

import "github.com/dd0wney/cluso-riskgraph/pkg/riskcolor"

// Fonts.
const (
	fontPrimaryLabel = "bold 13px sans-serif"
	fontPrimaryAddr  = "11px sans-serif"
	fontPrimaryOwner = "bold 10px sans-serif"
	fontClusterOwner = "bold 11px sans-serif"
	fontClusterRisk  = "9px sans-serif"
	fontWalletLabel  = "bold 9px sans-serif"
	fontWalletAddr   = "8px monospace"
	fontWalletValue  = "8px sans-serif"
	fontStepLabel    = "bold 11px sans-serif"
	fontStepNumber   = "10px sans-serif"
	fontStepAddr     = "9px monospace"
	fontParticle     = "9px sans-serif"
	fontClusterKey   = "9px sans-serif"
	fontFlowKey      = "10px sans-serif"
)

var (
	white          = riskcolor.RGB(255, 255, 255)
	primaryFill    = riskcolor.MustParseHex("#3b82f6")
	primaryAddr    = riskcolor.MustParseHex("#e0e7ff")
	primaryOwner   = riskcolor.MustParseHex("#bfdbfe")
	clusterRisk    = riskcolor.MustParseHex("#f3f4f6")
	walletAddr     = riskcolor.MustParseHex("#e5e7eb")
	walletValue    = riskcolor.MustParseHex("#d1d5db")
	stepNumber     = riskcolor.MustParseHex("#d1d5db")
	stepAddr       = riskcolor.MustParseHex("#9ca3af")
	particleLabel  = riskcolor.MustParseHex("#e5e7eb")
	legendLabel    = riskcolor.MustParseHex("#d1d5db")
	primarySpoke   = riskcolor.RGB(59, 130, 246).WithAlpha(0.2)
	flowConnection = riskcolor.RGB(107, 114, 128).WithAlpha(0.3)
	flowArrow      = riskcolor.RGB(107, 114, 128).WithAlpha(0.5)
)

// Glow radii and border widths.
const (
	primaryGlow   = 30.0
	clusterGlow   = 25.0
	stepGlow      = 20.0
	primaryBorder = 3.0
	clusterBorder = 2.0
	walletBorder  = 1.5
	stepBorder    = 2.0

	primarySpokeWidth = 2.0
	walletSpokeWidth  = 1.0
	walletSpokeAlpha  = 0.3
	flowLineWidth     = 2.0

	arrowLength    = 10.0
	arrowHalfWidth = 5.0

	legendSwatch     = 4.0
	legendTextOffset = 10.0
)

// walletAddrPrefix is how many address characters wallets show.
const walletAddrPrefix = 8
