package dto

// RegisterStudentInput is bound from the multipart enrollment form. The
// session dates are date-only strings ("2006-01-02") used to derive the
// course-duration label.
type RegisterStudentInput struct {
	StudentName string `form:"studentName" json:"studentName" binding:"required"`

	GuardianType string `form:"guardianType" json:"guardianType"`
	Gender       string `form:"gender" json:"gender"`
	FatherName   string `form:"fatherName" json:"fatherName"`
	DOB          string `form:"dob" json:"dob"`

	PinCode  string `form:"pinCode" json:"pinCode"`
	Town     string `form:"town" json:"town"`
	District string `form:"district" json:"district"`
	State    string `form:"state" json:"state"`

	IDProof  string `form:"idProof" json:"idProof"`
	IDNumber string `form:"idNumber" json:"idNumber"`

	Phone    string `form:"phone" json:"phone"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password" binding:"required,min=6"`

	CourseName        string `form:"courseName" json:"courseName" binding:"required"`
	SubjectName       string `form:"subjectName" json:"subjectName" binding:"required"`
	SelectFromSession string `form:"selectFromSession" json:"selectFromSession" binding:"required"`
	SelectToSession   string `form:"selectToSession" json:"selectToSession" binding:"required"`
}

// UpdateStudentInput carries the coalesce-on-blank partial update: blank
// fields keep the stored value, the password is re-hashed only when supplied
// and the photo is replaced only when a new file arrives.
type UpdateStudentInput struct {
	StudentName string `form:"studentName" json:"studentName"`

	GuardianType string `form:"guardianType" json:"guardianType"`
	Gender       string `form:"gender" json:"gender"`
	FatherName   string `form:"fatherName" json:"fatherName"`
	DOB          string `form:"dob" json:"dob"`

	PinCode  string `form:"pinCode" json:"pinCode"`
	Town     string `form:"town" json:"town"`
	District string `form:"district" json:"district"`
	State    string `form:"state" json:"state"`

	IDProof  string `form:"idProof" json:"idProof"`
	IDNumber string `form:"idNumber" json:"idNumber"`

	Phone    string `form:"phone" json:"phone"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`

	CourseName        string `form:"courseName" json:"courseName"`
	SubjectName       string `form:"subjectName" json:"subjectName"`
	SelectFromSession string `form:"selectFromSession" json:"selectFromSession"`
	SelectToSession   string `form:"selectToSession" json:"selectToSession"`
}

type UpdateCourseDetailsInput struct {
	CourseName string `json:"courseName"`
	Subjects   string `json:"subjects"`
	Grade      string `json:"grade"`
	Percentage string `json:"percentage"`
}

type CertificateLookupInput struct {
	EnrollNumber string `json:"enrollNumber" binding:"required"`
	RollNumber   string `json:"rollNumber" binding:"required"`
}

// Certificate is the public verification projection joined across Student,
// Franchise and Course.
type Certificate struct {
	StudentName  string  `json:"studentName"`
	EnrollNumber string  `json:"enrollNumber"`
	RollNumber   string  `json:"rollNumber"`
	ImageUpload  *string `json:"imageUpload"`

	FranchiseCode string `json:"franchiseCode"`
	InstituteName string `json:"instituteName"`
	City          string `json:"city"`
	State         string `json:"state"`

	CourseName     string  `json:"courseName"`
	Grade          *string `json:"grade"`
	Percentage     *string `json:"percentage"`
	CourseDuration string  `json:"courseDuration"`
}
