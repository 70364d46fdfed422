package models

import "time"

// ActionFields holds every user-editable attribute of an action record.
type ActionFields struct {
	Name        string `json:"name" yaml:"name"`
	Location    string `json:"location" yaml:"location"`
	Description string `json:"description" yaml:"description"`
	StartDate   Date   `json:"startDate" yaml:"startDate"`
	EndDate     Date   `json:"endDate" yaml:"endDate"`
	Quarter     string `json:"quarter" yaml:"quarter"`

	Departments          []string `json:"departments" yaml:"departments"`
	ProfessionalFamilies []string `json:"professionalFamilies" yaml:"professionalFamilies"`
	SelectedGroups       []string `json:"selectedGroups" yaml:"selectedGroups"`
	Objectives           []string `json:"objectives" yaml:"objectives"`

	StudentParticipants int    `json:"studentParticipants" yaml:"studentParticipants"`
	TeacherParticipants int    `json:"teacherParticipants" yaml:"teacherParticipants"`
	Rating              int    `json:"rating" yaml:"rating"`
	Comments            string `json:"comments" yaml:"comments"`

	CreatedBy string `json:"createdBy" yaml:"createdBy"`
	Network   string `json:"network" yaml:"network"`
	Center    string `json:"center" yaml:"center"`

	ImageURL     *string `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	DocumentURL  *string `json:"documentUrl,omitempty" yaml:"documentUrl,omitempty"`
	DocumentName *string `json:"documentName,omitempty" yaml:"documentName,omitempty"`
}

// Action is a committed activity record owned by a network and center.
type Action struct {
	ID string `json:"id" yaml:"id"`

	ActionFields `yaml:",inline"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// TotalParticipants sums students and teachers.
func (a ActionFields) TotalParticipants() int {
	return a.StudentParticipants + a.TeacherParticipants
}

// Clone returns a deep copy so callers cannot mutate slices held by a store.
func (a Action) Clone() Action {
	a.ActionFields = a.ActionFields.Clone()
	return a
}

// Clone returns a deep copy of the fields.
func (f ActionFields) Clone() ActionFields {
	f.Departments = cloneStrings(f.Departments)
	f.ProfessionalFamilies = cloneStrings(f.ProfessionalFamilies)
	f.SelectedGroups = cloneStrings(f.SelectedGroups)
	f.Objectives = cloneStrings(f.Objectives)
	f.ImageURL = cloneStringPtr(f.ImageURL)
	f.DocumentURL = cloneStringPtr(f.DocumentURL)
	f.DocumentName = cloneStringPtr(f.DocumentName)
	return f
}

// ActionPatch lists the fields to overwrite on an action. Nil members are left untouched;
// a pointer to an empty slice clears the set and an empty attachment string removes it.
type ActionPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	StartDate   *Date   `json:"startDate,omitempty"`
	EndDate     *Date   `json:"endDate,omitempty"`
	Quarter     *string `json:"quarter,omitempty"`

	Departments          *[]string `json:"departments,omitempty"`
	ProfessionalFamilies *[]string `json:"professionalFamilies,omitempty"`
	SelectedGroups       *[]string `json:"selectedGroups,omitempty"`
	Objectives           *[]string `json:"objectives,omitempty"`

	StudentParticipants *int    `json:"studentParticipants,omitempty" validate:"omitempty,min=0"`
	TeacherParticipants *int    `json:"teacherParticipants,omitempty" validate:"omitempty,min=0"`
	Rating              *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comments            *string `json:"comments,omitempty"`

	CreatedBy *string `json:"createdBy,omitempty"`
	Network   *string `json:"network,omitempty"`
	Center    *string `json:"center,omitempty"`

	ImageURL     *string `json:"imageUrl,omitempty"`
	DocumentURL  *string `json:"documentUrl,omitempty"`
	DocumentName *string `json:"documentName,omitempty"`
}

// Apply shallow-merges the patch into fields.
func (p ActionPatch) Apply(fields *ActionFields) {
	if fields == nil {
		return
	}
	setString(&fields.Name, p.Name)
	setString(&fields.Location, p.Location)
	setString(&fields.Description, p.Description)
	if p.StartDate != nil {
		fields.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		fields.EndDate = *p.EndDate
	}
	setString(&fields.Quarter, p.Quarter)

	setStrings(&fields.Departments, p.Departments)
	setStrings(&fields.ProfessionalFamilies, p.ProfessionalFamilies)
	setStrings(&fields.SelectedGroups, p.SelectedGroups)
	setStrings(&fields.Objectives, p.Objectives)

	setInt(&fields.StudentParticipants, p.StudentParticipants)
	setInt(&fields.TeacherParticipants, p.TeacherParticipants)
	setInt(&fields.Rating, p.Rating)
	setString(&fields.Comments, p.Comments)

	setString(&fields.CreatedBy, p.CreatedBy)
	setString(&fields.Network, p.Network)
	setString(&fields.Center, p.Center)

	setOptional(&fields.ImageURL, p.ImageURL)
	setOptional(&fields.DocumentURL, p.DocumentURL)
	setOptional(&fields.DocumentName, p.DocumentName)
}

// IsEmpty reports whether the patch changes nothing.
func (p ActionPatch) IsEmpty() bool {
	return p == ActionPatch{}
}

// FullPatch builds a patch that overwrites every field with the given values.
func FullPatch(fields ActionFields) ActionPatch {
	f := fields.Clone()
	return ActionPatch{
		Name:                 &f.Name,
		Location:             &f.Location,
		Description:          &f.Description,
		StartDate:            &f.StartDate,
		EndDate:              &f.EndDate,
		Quarter:              &f.Quarter,
		Departments:          &f.Departments,
		ProfessionalFamilies: &f.ProfessionalFamilies,
		SelectedGroups:       &f.SelectedGroups,
		Objectives:           &f.Objectives,
		StudentParticipants:  &f.StudentParticipants,
		TeacherParticipants:  &f.TeacherParticipants,
		Rating:               &f.Rating,
		Comments:             &f.Comments,
		CreatedBy:            &f.CreatedBy,
		Network:              &f.Network,
		Center:               &f.Center,
		ImageURL:             optionalValue(f.ImageURL),
		DocumentURL:          optionalValue(f.DocumentURL),
		DocumentName:         optionalValue(f.DocumentName),
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setStrings(dst *[]string, v *[]string) {
	if v != nil {
		*dst = cloneStrings(*v)
		if *dst == nil {
			*dst = []string{}
		}
	}
}

func setOptional(dst **string, v *string) {
	switch {
	case v == nil:
	case *v == "":
		*dst = nil
	default:
		*dst = cloneStringPtr(v)
	}
}

// optionalValue maps an absent attachment to the empty string that clears it.
func optionalValue(v *string) *string {
	if v == nil {
		empty := ""
		return &empty
	}
	return v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneStringPtr(in *string) *string {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

// ActionView is an action annotated with whether the caller may edit it.
type ActionView struct {
	Action
	CanEdit bool `json:"canEdit"`
}
