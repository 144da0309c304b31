package services

import "strings"

// Standard is a single named compliance criterion belonging to one
// accreditation body. Identity is the id, unique within a body.
type Standard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AccreditationBody is a static catalog entry. The catalog is read-only at
// runtime; handlers and services must never mutate it.
type AccreditationBody struct {
	Key       string     `json:"key"`
	Name      string     `json:"name"`
	Standards []Standard `json:"standards"`
}

var accreditationBodies = []AccreditationBody{
	{
		Key:  "coda",
		Name: "Commission on Dental Accreditation (CODA)",
		Standards: []Standard{
			{ID: "CODA-1.1", Name: "Institutional Effectiveness", Description: "The program must demonstrate ongoing planning and assessment processes that evaluate the degree to which its goals are being met."},
			{ID: "CODA-1.2", Name: "Program Administration", Description: "The program administrator must have the authority and institutional support necessary to fulfill program goals."},
			{ID: "CODA-2.1", Name: "Curriculum Management", Description: "The curriculum must be structured, sequenced and reviewed through a defined curriculum management process."},
			{ID: "CODA-2.2", Name: "Biomedical Sciences", Description: "Instruction in the biomedical sciences must provide the depth required for clinical decision making."},
			{ID: "CODA-2.3", Name: "Clinical Competency", Description: "Graduates must be competent in providing patient-centered oral health care across the scope of general dentistry."},
			{ID: "CODA-3.1", Name: "Faculty and Staff", Description: "The program must employ faculty sufficient in number and qualification to meet its stated objectives."},
			{ID: "CODA-4.1", Name: "Educational Support Services", Description: "Students must have access to the facilities, learning resources and support services required by the curriculum."},
			{ID: "CODA-5.1", Name: "Patient Care Services", Description: "Patient care must be evidence-based, integrated and ensure the safety of patients and providers."},
		},
	},
	{
		Key:  "ada",
		Name: "American Dental Association (ADA) Education Standards",
		Standards: []Standard{
			{ID: "ADA-1.1", Name: "Program Goals and Outcomes", Description: "The program must publish measurable goals and document graduate outcomes against them."},
			{ID: "ADA-1.2", Name: "Ethics and Professionalism", Description: "The curriculum must develop professional ethical reasoning and compliance with regulatory obligations."},
			{ID: "ADA-2.1", Name: "Scientific Foundations", Description: "Instruction must ground clinical practice in current biomedical, behavioral and clinical science."},
			{ID: "ADA-2.2", Name: "Critical Thinking", Description: "Graduates must demonstrate the ability to evaluate scientific literature and apply it to patient care."},
			{ID: "ADA-3.1", Name: "Assessment of Learning", Description: "Student evaluation methods must align with stated competencies and be applied consistently."},
			{ID: "ADA-3.2", Name: "Continuous Improvement", Description: "The program must use assessment results to drive documented curricular improvement."},
		},
	},
}

// AllBodies returns the full ordered catalog.
func AllBodies() []AccreditationBody {
	return accreditationBodies
}

// Body looks up a catalog entry by key.
func Body(key string) (AccreditationBody, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, body := range accreditationBodies {
		if body.Key == key {
			return body, true
		}
	}
	return AccreditationBody{}, false
}

// NormalizeStandardID lowers the id and strips whitespace and punctuation
// so model-returned ids like "ada11" or "ADA 1.1" match "ADA-1.1".
func NormalizeStandardID(id string) string {
	id = strings.ToLower(id)
	id = strings.ReplaceAll(id, "-", "")
	id = strings.ReplaceAll(id, ".", "")
	return strings.Join(strings.Fields(id), "")
}

// FindStandard matches a raw (possibly mangled) standard id against a body's
// catalog under normalized equality.
func FindStandard(body AccreditationBody, rawID string) (Standard, bool) {
	want := NormalizeStandardID(rawID)
	if want == "" {
		return Standard{}, false
	}
	for _, std := range body.Standards {
		if NormalizeStandardID(std.ID) == want {
			return std, true
		}
	}
	return Standard{}, false
}
