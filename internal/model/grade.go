package model

type GradeComponentType string

const (
	ComponentRegular1  GradeComponentType = "regular_1"
	ComponentRegular2  GradeComponentType = "regular_2"
	ComponentRegular3  GradeComponentType = "regular_3"
	ComponentRegular4  GradeComponentType = "regular_4"
	ComponentMidterm   GradeComponentType = "midterm"
	ComponentFinal     GradeComponentType = "final"
	ComponentSemester1 GradeComponentType = "semester_1"
	ComponentSemester2 GradeComponentType = "semester_2"
	ComponentYearly    GradeComponentType = "yearly"
	ComponentSummary   GradeComponentType = "summary"
)

func (t GradeComponentType) Valid() bool {
	switch t {
	case ComponentRegular1, ComponentRegular2, ComponentRegular3, ComponentRegular4,
		ComponentMidterm, ComponentFinal, ComponentSemester1, ComponentSemester2,
		ComponentYearly, ComponentSummary:
		return true
	}
	return false
}

const (
	GradeValueMin = 0.0
	GradeValueMax = 10.0
)

// 成绩值允许为空（表示清除），非空时必须落在 [0,10] 闭区间
func ValidGradeValue(v *float64) bool {
	if v == nil {
		return true
	}
	return *v >= GradeValueMin && *v <= GradeValueMax
}

// swagger:model DetailedGrade
type DetailedGrade struct {
	UUIDBase
	PeriodID      string             `gorm:"type:varchar(36);not null;uniqueIndex:uidx_grade_tuple,priority:1" json:"periodId"`
	StudentID     string             `gorm:"type:varchar(36);not null;uniqueIndex:uidx_grade_tuple,priority:2" json:"studentId"`
	SubjectID     string             `gorm:"type:varchar(36);not null;uniqueIndex:uidx_grade_tuple,priority:3" json:"subjectId"`
	ClassID       string             `gorm:"type:varchar(36);not null;index" json:"classId"`
	ComponentType GradeComponentType `gorm:"size:20;not null;uniqueIndex:uidx_grade_tuple,priority:4" json:"componentType"`
	GradeValue    *float64           `json:"gradeValue"`
}

func (DetailedGrade) TableName() string {
	return "detailed_grades"
}
