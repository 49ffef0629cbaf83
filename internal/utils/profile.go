package utils

import (
	"encoding/json"

	"github.com/jobpilot-dev/jobpilot/internal/models"
	"github.com/jobpilot-dev/jobpilot/internal/types"
	"gorm.io/datatypes"
)

// DecodeSections unpacks a profile's JSON columns into typed sections.
// Empty or missing columns decode to zero values rather than failing.
func DecodeSections(profile *models.Profile) types.ProfileSections {
	var sections types.ProfileSections

	decode(profile.PersonalInfo, &sections.PersonalInfo)
	decode(profile.Education, &sections.Education)
	decode(profile.WorkExperience, &sections.WorkExperience)
	decode(profile.Projects, &sections.Projects)
	decode(profile.Skills, &sections.Skills)
	decode(profile.Certifications, &sections.Certifications)
	decode(profile.Languages, &sections.Languages)

	if sections.Education == nil {
		sections.Education = []types.Education{}
	}
	if sections.WorkExperience == nil {
		sections.WorkExperience = []types.WorkExperience{}
	}
	if sections.Projects == nil {
		sections.Projects = []types.Project{}
	}
	if sections.Skills.Technical == nil {
		sections.Skills.Technical = []types.TechnicalSkill{}
	}
	if sections.Skills.Soft == nil {
		sections.Skills.Soft = []types.SoftSkill{}
	}
	if sections.Certifications == nil {
		sections.Certifications = []types.Certification{}
	}
	if sections.Languages == nil {
		sections.Languages = []types.Language{}
	}

	return sections
}

// EncodeSections writes typed sections back into the profile's JSON columns
// and recomputes the completeness score.
func EncodeSections(profile *models.Profile, sections types.ProfileSections) error {
	columns := []struct {
		dst *datatypes.JSON
		src interface{}
	}{
		{&profile.PersonalInfo, sections.PersonalInfo},
		{&profile.Education, sections.Education},
		{&profile.WorkExperience, sections.WorkExperience},
		{&profile.Projects, sections.Projects},
		{&profile.Skills, sections.Skills},
		{&profile.Certifications, sections.Certifications},
		{&profile.Languages, sections.Languages},
	}

	for _, col := range columns {
		raw, err := json.Marshal(col.src)
		if err != nil {
			return err
		}
		*col.dst = datatypes.JSON(raw)
	}

	profile.Completeness = CalculateCompleteness(sections)

	return nil
}

// CalculateCompleteness scores a profile 0-100 from weighted section
// presence: personal info 20, education 20, experience 25, skills 20
// (half credit below the 5 technical / 3 soft thresholds), projects 10,
// certifications or languages 5.
func CalculateCompleteness(sections types.ProfileSections) int {
	score := 0.0

	personalFilled := 0
	if sections.PersonalInfo.FullName != "" {
		personalFilled++
	}
	if sections.PersonalInfo.Phone != "" {
		personalFilled++
	}
	if sections.PersonalInfo.Summary != "" {
		personalFilled++
	}
	score += float64(personalFilled) / 3 * 20

	if len(sections.Education) > 0 {
		score += 20
	}

	if len(sections.WorkExperience) > 0 {
		score += 25
	}

	if len(sections.Skills.Technical) >= 5 && len(sections.Skills.Soft) >= 3 {
		score += 20
	} else if len(sections.Skills.Technical) > 0 || len(sections.Skills.Soft) > 0 {
		score += 10
	}

	if len(sections.Projects) > 0 {
		score += 10
	}

	if len(sections.Certifications) > 0 || len(sections.Languages) > 0 {
		score += 5
	}

	return int(score + 0.5)
}

// MissingFields lists the human-readable requirements a profile still lacks.
func MissingFields(sections types.ProfileSections) []string {
	missing := []string{}

	if sections.PersonalInfo.FullName == "" {
		missing = append(missing, "Full Name")
	}
	if sections.PersonalInfo.Summary == "" {
		missing = append(missing, "Professional Summary")
	}
	if len(sections.Education) == 0 {
		missing = append(missing, "Education")
	}
	if len(sections.WorkExperience) == 0 && len(sections.Projects) == 0 {
		missing = append(missing, "Work Experience or Projects")
	}
	if len(sections.Skills.Technical) < 5 {
		missing = append(missing, "Technical Skills (min 5)")
	}
	if len(sections.Skills.Soft) < 3 {
		missing = append(missing, "Soft Skills (min 3)")
	}

	return missing
}

func decode(raw datatypes.JSON, dst interface{}) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}
