package app

import (
	"entrolab/domain/entropy"
	"entrolab/domain/panel"
	"entrolab/ports"
)

// measureRepos pools the topics of a repo sample into one measurement,
// dropping the excluded labels. An empty sample measures zero entropy
// with NUnits 0; the regression builders treat such cells as missing
// rather than as genuine zeros.
func measureRepos(repos []ports.Repo, exclude []string, topN int) panel.Measurement {
	dist := entropy.NewDistribution(exclude...)
	for _, repo := range repos {
		for _, label := range repo.Topics {
			dist.Add(label)
		}
	}
	m := panel.Measurement{
		HCS:     dist.ChaoShen(),
		HPlugin: dist.Shannon(),
		NUnits:  len(repos),
		NLabels: dist.Distinct(),
	}
	for _, lc := range dist.Top(topN) {
		m.Top = append(m.Top, lc.Label)
	}
	return m
}
