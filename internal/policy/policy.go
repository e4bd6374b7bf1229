// Package policy decides whether an actor may perform an action on a target.
// Every usecase operation consults Authorize before touching storage.
package policy

import "job-board-backend/internal/domain"

type Action string

const (
	ListJobs                Action = "list_jobs"
	ViewJob                 Action = "view_job"
	ViewDashboard           Action = "view_dashboard"
	Apply                   Action = "apply"
	ListOwnApplications     Action = "list_own_applications"
	PostJob                 Action = "post_job"
	ManageJobs              Action = "manage_jobs"
	EditJob                 Action = "edit_job"
	DeleteJob               Action = "delete_job"
	ListJobApplications     Action = "list_job_applications"
	UpdateApplicationStatus Action = "update_application_status"
	ViewApplication         Action = "view_application"
	AdminRead               Action = "admin_read"
)

// Target describes the entity an action applies to. OwnerID is the employer
// owning the job (directly, or through an application's job). ApplicantID is
// the seeker of an application.
type Target struct {
	OwnerID     int64
	ApplicantID int64
}

// JobTarget is the target for an action on a job.
func JobTarget(job *domain.Job) Target {
	if job == nil {
		return Target{}
	}
	return Target{OwnerID: job.EmployerID}
}

// ApplicationTarget is the target for an action on an application. The
// application must carry its job's EmployerID.
func ApplicationTarget(app *domain.Application) Target {
	if app == nil {
		return Target{}
	}
	return Target{OwnerID: app.EmployerID, ApplicantID: app.SeekerID}
}

type Decision struct {
	Allowed bool
	Reason  error
}

// Err is nil for an allowed decision and the denial reason otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.Reason
}

var allow = Decision{Allowed: true}

func deny(reason error) Decision {
	return Decision{Reason: reason}
}

// Authorize evaluates the access rules. Denial reasons are domain errors:
// ErrUnauthenticated, ErrNotSeeker, ErrNotEmployer, ErrNotOwner, ErrNotJobOwner or ErrNotAdmin.
func Authorize(actor domain.Actor, action Action, target Target) Decision {
	switch action {
	case ListJobs, ViewJob:
		return allow
	}

	if actor.IsAnonymous() {
		return deny(domain.ErrUnauthenticated)
	}

	switch action {
	case ViewDashboard:
		return allow

	case Apply, ListOwnApplications:
		if !actor.IsSeeker() {
			return deny(domain.ErrNotSeeker)
		}
		return allow

	case PostJob, ManageJobs:
		if !actor.IsEmployer() {
			return deny(domain.ErrNotEmployer)
		}
		return allow

	case EditJob, DeleteJob:
		if !actor.IsEmployer() {
			return deny(domain.ErrNotEmployer)
		}
		if target.OwnerID != actor.UserID {
			return deny(domain.ErrNotOwner)
		}
		return allow

	case ListJobApplications:
		if ownsJob(actor, target) || actor.IsAdmin {
			return allow
		}
		return deny(domain.ErrNotJobOwner)

	case UpdateApplicationStatus:
		// Administrators read everything but only the job's employer changes status.
		if ownsJob(actor, target) {
			return allow
		}
		return deny(domain.ErrNotJobOwner)

	case ViewApplication:
		if ownsJob(actor, target) || actor.IsAdmin {
			return allow
		}
		if actor.IsSeeker() && target.ApplicantID == actor.UserID {
			return allow
		}
		return deny(domain.ErrNotOwner)

	case AdminRead:
		if !actor.IsAdmin {
			return deny(domain.ErrNotAdmin)
		}
		return allow
	}

	return deny(domain.ErrNotOwner)
}

func ownsJob(actor domain.Actor, target Target) bool {
	return actor.IsEmployer() && target.OwnerID != 0 && target.OwnerID == actor.UserID
}
