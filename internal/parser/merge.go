package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sync"

	"veridoc/internal/domain"
	"veridoc/internal/port"
)

var passportNumberRe = regexp.MustCompile(`^[A-Z0-9<]{7,9}$`)
var alpha3Re = regexp.MustCompile(`^[A-Z]{3}$`)
var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// MergeParser wraps two DocumentParsers, runs both in parallel, and merges
// results field by field: agreement boosts confidence, a gap in one output is
// filled from the other, and disagreements are settled by format (when the
// field has one) or kept from the primary at reduced confidence.
type MergeParser struct {
	primary   port.DocumentParser
	secondary port.DocumentParser
}

// NewMergeParser creates a MergeParser from primary and secondary parsers.
func NewMergeParser(primary, secondary port.DocumentParser) *MergeParser {
	return &MergeParser{primary: primary, secondary: secondary}
}

func (m *MergeParser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	type result struct {
		output *port.ParseOutput
		err    error
	}

	var wg sync.WaitGroup
	primaryCh := make(chan result, 1)
	secondaryCh := make(chan result, 1)

	wg.Add(2)
	go func() {
		defer wg.Done()
		out, err := m.primary.Parse(ctx, input)
		primaryCh <- result{out, err}
	}()
	go func() {
		defer wg.Done()
		out, err := m.secondary.Parse(ctx, input)
		secondaryCh <- result{out, err}
	}()

	wg.Wait()
	close(primaryCh)
	close(secondaryCh)

	pResult := <-primaryCh
	sResult := <-secondaryCh

	// Both failed
	if pResult.err != nil && sResult.err != nil {
		return nil, fmt.Errorf("both parsers failed: primary: %v; secondary: %v", pResult.err, sResult.err)
	}

	// Only secondary succeeded
	if pResult.err != nil {
		log.Printf("parser.MergeParser: primary parser failed (%v), using secondary only", pResult.err)
		sResult.output.FieldProvenance = map[string]string{"_source": "secondary_only"}
		sResult.output.SecondaryModel = sResult.output.ModelUsed
		return sResult.output, nil
	}

	// Only primary succeeded
	if sResult.err != nil {
		log.Printf("parser.MergeParser: secondary parser failed (%v), using primary only", sResult.err)
		pResult.output.FieldProvenance = map[string]string{"_source": "primary_only"}
		return pResult.output, nil
	}

	// Both succeeded, merge
	return mergeOutputs(pResult.output, sResult.output)
}

func mergeOutputs(primary, secondary *port.ParseOutput) (*port.ParseOutput, error) {
	var pData, sData domain.PassportData
	if err := json.Unmarshal(primary.Data, &pData); err != nil {
		return primary, nil // fall back to primary on parse error
	}
	if err := json.Unmarshal(secondary.Data, &sData); err != nil {
		return primary, nil
	}

	pConf := map[string]float64{}
	sConf := map[string]float64{}
	_ = json.Unmarshal(primary.ConfidenceScores, &pConf)
	_ = json.Unmarshal(secondary.ConfidenceScores, &sConf)

	provenance := make(map[string]string)
	merged := pData // start with primary

	mergeField(&merged.FullName, sData.FullName, pConf, sConf, "full_name", provenance, nil)
	mergeField(&merged.DateOfBirth, sData.DateOfBirth, pConf, sConf, "date_of_birth", provenance, isoDateRe)
	mergeField(&merged.PassportNumber, sData.PassportNumber, pConf, sConf, "passport_number", provenance, passportNumberRe)
	mergeField(&merged.Nationality, sData.Nationality, pConf, sConf, "nationality", provenance, alpha3Re)
	mergeField(&merged.DateOfIssue, sData.DateOfIssue, pConf, sConf, "date_of_issue", provenance, isoDateRe)
	mergeField(&merged.DateOfExpiry, sData.DateOfExpiry, pConf, sConf, "date_of_expiry", provenance, isoDateRe)
	mergeField(&merged.PlaceOfBirth, sData.PlaceOfBirth, pConf, sConf, "place_of_birth", provenance, nil)
	mergeField(&merged.IssuingAuthority, sData.IssuingAuthority, pConf, sConf, "issuing_authority", provenance, nil)
	mergeField(&merged.Gender, sData.Gender, pConf, sConf, "gender", provenance, nil)

	// MRZ lines travel as a pair: take the secondary's zone only when the
	// primary produced none.
	if merged.MRZ.IsEmpty() && !sData.MRZ.IsEmpty() {
		merged.MRZ = sData.MRZ
		provenance["mrz"] = "secondary"
	}

	mergedData, _ := json.Marshal(merged)
	mergedConf, _ := json.Marshal(pConf)

	return &port.ParseOutput{
		Data:             mergedData,
		ConfidenceScores: mergedConf,
		ModelUsed:        primary.ModelUsed,
		PromptUsed:       primary.PromptUsed,
		FieldProvenance:  provenance,
		SecondaryModel:   secondary.ModelUsed,
	}, nil
}

// mergeField implements the merge strategy for one identity field.
func mergeField(pVal *domain.FlexString, sVal domain.FlexString, pConf, sConf map[string]float64, fieldPath string, provenance map[string]string, formatRe *regexp.Regexp) {
	if *pVal == sVal {
		// Agreement: boost confidence
		if c := pConf[fieldPath]; c < 1.0 {
			boosted := c + (1.0-c)*0.2
			if boosted > 1.0 {
				boosted = 1.0
			}
			pConf[fieldPath] = boosted
		}
		provenance[fieldPath] = "agree"
		return
	}

	if *pVal == "" && sVal != "" {
		*pVal = sVal
		pConf[fieldPath] = sConf[fieldPath]
		provenance[fieldPath] = "secondary"
		return
	}

	if sVal == "" {
		provenance[fieldPath] = "primary"
		return
	}

	// Disagreement: prefer the value matching the expected format
	if formatRe != nil {
		pMatch := formatRe.MatchString(pVal.String())
		sMatch := formatRe.MatchString(sVal.String())
		if sMatch && !pMatch {
			*pVal = sVal
			pConf[fieldPath] = sConf[fieldPath] * 0.8
			provenance[fieldPath] = "secondary_format"
			return
		}
		if pMatch && !sMatch {
			pConf[fieldPath] *= 0.8
			provenance[fieldPath] = "primary_format"
			return
		}
	}

	// Both disagree, keep primary but reduce confidence
	pConf[fieldPath] *= 0.6
	provenance[fieldPath] = "disagreement"
}
