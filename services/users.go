package services

import (
	"context"

	"jobsite-api/models"
	"jobsite-api/utils"
)

// AddUser creates a user with the next id and appends it to the mirror. The
// created entity is returned so callers can use the assigned id immediately.
func (d *DataContext) AddUser(ctx context.Context, req models.UserCreateRequest) (models.User, error) {
	name := utils.SanitizeInput(req.Name)
	email := utils.SanitizeInput(req.Email)
	if name == "" {
		return models.User{}, invalid("user name is required")
	}
	if email != "" && !utils.ValidateEmail(email) {
		return models.User{}, invalid("invalid email %q", email)
	}
	if req.HourlyRate.IsNegative() {
		return models.User{}, invalid("hourly rate must not be negative")
	}
	role := req.Role
	if role == "" {
		role = models.RoleEmployee
	}
	if role != models.RoleEmployee && role != models.RoleAdmin {
		return models.User{}, invalid("unknown role %q", role)
	}

	d.lock()
	defer d.unlock()

	user := models.User{
		UserID:     d.peekID("user"),
		Name:       name,
		Email:      email,
		Password:   req.Password,
		RoleTitle:  req.RoleTitle,
		Role:       role,
		HourlyRate: req.HourlyRate,
		AvatarURL:  req.AvatarURL,
	}
	if err := d.store.CreateUser(ctx, &user); err != nil {
		return models.User{}, err
	}
	d.commitID("user", user.UserID)
	d.users = append(d.users, user)
	d.saveSnapshot(ctx, "users", d.users)
	return user, nil
}

// UpdateUser applies a partial update by id. A rate change takes effect for
// cost computation from the next clock-out on; open sessions are not split.
func (d *DataContext) UpdateUser(ctx context.Context, id int, req models.UserUpdateRequest) (models.User, error) {
	d.lock()
	defer d.unlock()

	current := d.findUser(id)
	if current == nil {
		return models.User{}, notFound("user", id)
	}

	updated := *current
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Email != nil {
		email := utils.SanitizeInput(*req.Email)
		if email != "" && !utils.ValidateEmail(email) {
			return models.User{}, invalid("invalid email %q", email)
		}
		updated.Email = email
	}
	if req.RoleTitle != nil {
		updated.RoleTitle = *req.RoleTitle
	}
	if req.Role != nil {
		if *req.Role != models.RoleEmployee && *req.Role != models.RoleAdmin {
			return models.User{}, invalid("unknown role %q", *req.Role)
		}
		updated.Role = *req.Role
	}
	if req.HourlyRate != nil {
		if req.HourlyRate.IsNegative() {
			return models.User{}, invalid("hourly rate must not be negative")
		}
		updated.HourlyRate = *req.HourlyRate
	}
	if req.AvatarURL != nil {
		updated.AvatarURL = *req.AvatarURL
	}

	if err := d.store.UpdateUser(ctx, &updated); err != nil {
		return models.User{}, err
	}
	*current = updated
	d.saveSnapshot(ctx, "users", d.users)
	return updated, nil
}

// SetUserPassword stores a new password hash for the user.
func (d *DataContext) SetUserPassword(ctx context.Context, id int, hash string) error {
	d.lock()
	defer d.unlock()

	current := d.findUser(id)
	if current == nil {
		return notFound("user", id)
	}
	updated := *current
	updated.Password = hash
	if err := d.store.UpdateUser(ctx, &updated); err != nil {
		return err
	}
	*current = updated
	return nil
}
