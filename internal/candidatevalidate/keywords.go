package candidatevalidate

import "regexp"

var fundingKeywordPattern = regexp.MustCompile(`(?i)scholarship|bursary|fellowship|grant|stipend|funding|studentship|financial aid|award`)

var guidePathPattern = regexp.MustCompile(`(?i)/guide|/how-to|/overview|/types-of|/faq|/about`)

var formApplyPattern = regexp.MustCompile(`(?i)apply now|application form`)

var eligibilityPattern = regexp.MustCompile(`(?i)eligibility|requirements|criteria`)

var htmlContentTypePattern = regexp.MustCompile(`(?i)text/html|application/xhtml`)

var formTagPattern = regexp.MustCompile(`(?i)<form[\s>]`)
