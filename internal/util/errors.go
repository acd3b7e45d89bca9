package util

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailRegistered       = errors.New("email already registered")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrCourseNotFound        = errors.New("course not found")
	ErrCourseNotPublished    = errors.New("course not published")
	ErrNotEnrolled           = errors.New("not enrolled in this course")
	ErrAlreadyEnrolled       = errors.New("already enrolled in this course")
	ErrAssessmentNotFound    = errors.New("assessment not found")
	ErrAssessmentNotOpen     = errors.New("assessment not published or not accessible")
	ErrAssessmentOverdue     = errors.New("assessment due date has passed")
	ErrAlreadySubmitted      = errors.New("assessment already submitted")
	ErrSubmissionNotFound    = errors.New("no submission found for this assessment")
	ErrCertificateNotFound   = errors.New("certificate not found")
	ErrCertificateNotEarned  = errors.New("assessment not passed, certificate not available")
	ErrMaterialNotFound      = errors.New("study material not found")
	ErrLiveClassNotFound     = errors.New("live class not found")
	ErrLiveClassNotJoinable  = errors.New("live class is not currently live")
	ErrLiveClassAlreadyEnded = errors.New("live class already ended")
)
