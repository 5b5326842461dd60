// Package ecosystem defines the study rosters: which developer
// communities are measured, under which search queries, over which
// periods. Everything here is static configuration; the collectors and
// services consume it.
package ecosystem

import (
	"time"

	"entrolab/domain/core"
	"entrolab/domain/panel"
)

// Topic identifies a GitHub topic ecosystem in the cross-sectional sweep.
type Topic struct {
	Key          core.EcosystemKey
	Name         string
	Context      string
	ExpectedRank int // market-share rank within its context
}

// Keyword identifies an npm keyword ecosystem in the sweep.
type Keyword struct {
	Key     core.EcosystemKey
	Name    string
	Context string
}

// SweepTopics returns the GitHub half of the cross-sectional sweep.
func SweepTopics() []Topic {
	return []Topic{
		{Key: "ethereum", Name: "Ethereum", Context: "L1 blockchain developer ecosystem", ExpectedRank: 1},
		{Key: "bitcoin", Name: "Bitcoin", Context: "L1 blockchain developer ecosystem", ExpectedRank: 2},
		{Key: "solana", Name: "Solana", Context: "L1 blockchain developer ecosystem", ExpectedRank: 3},
		{Key: "android", Name: "Android", Context: "Mobile OS developer ecosystem", ExpectedRank: 1},
		{Key: "ios", Name: "iOS", Context: "Mobile OS developer ecosystem", ExpectedRank: 2},
		{Key: "react", Name: "React", Context: "Frontend JS framework ecosystem", ExpectedRank: 1},
		{Key: "angular", Name: "Angular", Context: "Frontend JS framework ecosystem", ExpectedRank: 2},
		{Key: "vue", Name: "Vue", Context: "Frontend JS framework ecosystem", ExpectedRank: 3},
		{Key: "svelte", Name: "Svelte", Context: "Frontend JS framework ecosystem", ExpectedRank: 4},
		{Key: "openai", Name: "OpenAI/GPT", Context: "LLM developer ecosystem", ExpectedRank: 1},
		{Key: "langchain", Name: "LangChain", Context: "LLM developer ecosystem", ExpectedRank: 2},
		{Key: "aws", Name: "AWS", Context: "Cloud platform ecosystem", ExpectedRank: 1},
		{Key: "azure", Name: "Azure", Context: "Cloud platform ecosystem", ExpectedRank: 2},
		{Key: "google-cloud", Name: "GCP", Context: "Cloud platform ecosystem", ExpectedRank: 3},
	}
}

// SweepKeywords returns the npm half of the cross-sectional sweep.
func SweepKeywords() []Keyword {
	return []Keyword{
		{Key: "react", Name: "React", Context: "Frontend framework"},
		{Key: "angular", Name: "Angular", Context: "Frontend framework"},
		{Key: "vue", Name: "Vue", Context: "Frontend framework"},
		{Key: "svelte", Name: "Svelte", Context: "Frontend framework"},
		{Key: "ethereum", Name: "Ethereum", Context: "Web3 / Blockchain"},
		{Key: "bitcoin", Name: "Bitcoin", Context: "Web3 / Blockchain"},
		{Key: "solana", Name: "Solana", Context: "Web3 / Blockchain"},
		{Key: "openai", Name: "OpenAI", Context: "LLM tooling"},
		{Key: "langchain", Name: "LangChain", Context: "LLM tooling"},
	}
}

// Member is one measured series inside a panel or event study: a GitHub
// search query (without its created: window) plus the labels excluded
// from the resulting topic distribution.
type Member struct {
	Key     core.EcosystemKey
	Query   string
	Exclude []string
}

// AnnualPanel describes a yearly comparison panel. GapA and GapB name
// the headline pair: the panel's entropy-gap table is GapA's series
// minus GapB's.
type AnnualPanel struct {
	Name    string
	Years   []int
	GapA    core.EcosystemKey
	GapB    core.EcosystemKey
	Members []Member
}

// AnnualPanels returns the three annual panels: mobile OS duopoly on odd
// years, blockchain application layers on every year since 2017, and the
// frontend framework pair on even (biennial) years.
func AnnualPanels() []AnnualPanel {
	return []AnnualPanel{
		{
			Name:  "mobile",
			Years: []int{2011, 2013, 2015, 2017, 2019, 2021, 2023},
			GapA:  "android",
			GapB:  "ios",
			Members: []Member{
				{Key: "android", Query: "topic:android stars:>=3", Exclude: []string{"android"}},
				{Key: "ios", Query: "topic:ios stars:>=3", Exclude: []string{"ios"}},
			},
		},
		{
			Name:  "blockchain",
			Years: []int{2017, 2018, 2019, 2020, 2021, 2022, 2023},
			GapA:  "ethereum_app",
			GapB:  "bitcoin_app",
			Members: []Member{
				{Key: "ethereum_app", Query: "topic:ethereum topic:solidity stars:>=2"},
				{Key: "ethereum_all", Query: "topic:ethereum stars:>=5"},
				{Key: "bitcoin_app", Query: "topic:bitcoin topic:lightning-network stars:>=2"},
				{Key: "bitcoin_all", Query: "topic:bitcoin stars:>=5"},
			},
		},
		{
			Name:  "frontend",
			Years: []int{2014, 2016, 2018, 2020, 2022, 2024},
			GapA:  "react",
			GapB:  "angular",
			Members: []Member{
				{Key: "react", Query: "topic:react stars:>=5", Exclude: []string{"react"}},
				{Key: "angular", Query: "topic:angular stars:>=5", Exclude: []string{"angular"}},
			},
		},
	}
}

// EventStudy describes a monthly window around a treatment event, with a
// treated series and its placebo or control counterpart. Anchor is the
// month at tau=0 on the event clock. ControlRole says what the second
// series is: a true control in the same market, or a placebo from an
// untreated market.
type EventStudy struct {
	Name        string
	Anchor      panel.Month
	Start       panel.Month
	Months      int
	Treated     Member
	Control     Member
	ControlRole string
}

// EventStudies returns the two natural-experiment windows: the Ethereum
// Shanghai upgrade of April 2023 with Bitcoin Lightning as the placebo,
// and the create-react-app deprecation with Angular as the control. The
// CRA clock anchors tau=0 at December 2022, so January 2023 lands at
// tau=+1 as in the published series.
func EventStudies() []EventStudy {
	return []EventStudy{
		{
			Name:        "shanghai",
			Anchor:      panel.NewMonth(2023, time.April),
			Start:       panel.NewMonth(2022, time.April),
			Months:      24,
			Treated:     Member{Key: "eth_app", Query: "topic:ethereum topic:solidity stars:>=2"},
			Control:     Member{Key: "btc_app", Query: "topic:bitcoin topic:lightning-network stars:>=2"},
			ControlRole: "placebo",
		},
		{
			Name:        "cra",
			Anchor:      panel.NewMonth(2022, time.December),
			Start:       panel.NewMonth(2022, time.January),
			Months:      24,
			Treated:     Member{Key: "react", Query: "topic:react stars:>=3", Exclude: []string{"react"}},
			Control:     Member{Key: "angular", Query: "topic:angular stars:>=3", Exclude: []string{"angular"}},
			ControlRole: "control",
		},
	}
}

// SectorStudy describes the within-Ethereum stacked difference-in-
// differences design: DeFi/staking repositories against wallet/tooling
// repositories around the Shanghai upgrade, with a fake-event rerun for
// the placebo check.
type SectorStudy struct {
	Name          string
	Anchor        panel.Month
	PlaceboAnchor panel.Month
	Start         panel.Month
	Months        int
	Treated       Member
	Control       Member
}

// ShanghaiSectorStudy returns the sector DiD configuration.
func ShanghaiSectorStudy() SectorStudy {
	return SectorStudy{
		Name:          "shanghai_sectors",
		Anchor:        panel.NewMonth(2023, time.April),
		PlaceboAnchor: panel.NewMonth(2022, time.October),
		Start:         panel.NewMonth(2022, time.April),
		Months:        24,
		Treated: Member{
			Key:     "defi",
			Query:   "topic:ethereum topic:defi stars:>=2",
			Exclude: []string{"ethereum", "defi"},
		},
		Control: Member{
			Key:     "wallet",
			Query:   "topic:ethereum topic:wallet stars:>=2",
			Exclude: []string{"ethereum", "wallet"},
		},
	}
}

// DownloadPackages lists the npm packages whose download counts define
// the frontend market-share series. The Angular total sums the legacy
// angularjs package and the scoped @angular/core package.
func DownloadPackages() []string {
	return []string{"react", "angularjs", "@angular/core", "vue", "svelte"}
}

// DownloadYears returns the market-share year roster.
func DownloadYears() []int {
	years := make([]int, 0, 11)
	for yr := 2014; yr <= 2024; yr++ {
		years = append(years, yr)
	}
	return years
}

// CoTagPair is one platform pair whose entropy rank ordering is compared
// across the GitHub and Stack Overflow measures.
type CoTagPair struct {
	A, B string
}

// CoTagTags returns the Stack Overflow tags measured for co-tag entropy.
func CoTagTags() []string {
	return []string{"android", "ios", "ethereum", "bitcoin", "reactjs", "angularjs"}
}

// CoTagPairs returns the rank-agreement pairs.
func CoTagPairs() []CoTagPair {
	return []CoTagPair{
		{A: "android", B: "ios"},
		{A: "ethereum", B: "bitcoin"},
		{A: "reactjs", B: "angularjs"},
	}
}

// GitHubReferenceHCS returns the supply-side entropy reference for the
// co-tag comparison: the most recent annual panel measurement per
// platform tag.
func GitHubReferenceHCS() map[string]float64 {
	return map[string]float64{
		"android":   8.888, // 2023
		"ios":       8.283, // 2023
		"ethereum":  5.849, // 2023 app layer
		"bitcoin":   5.470, // 2023 app layer
		"reactjs":   8.397, // 2024
		"angularjs": 8.794, // 2024
	}
}
