package cli

import (
	"github.com/spf13/cobra"

	"parkwise/application/dto"
	"parkwise/pkg/utils"
)

type adminRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	OfficeID string `json:"office"`
}

func (a *app) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}

	var req adminRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator",
		Long: `Create an administrator account. When a JWT secret is configured
(PARKCTL_JWT_SECRET, matching the server) a bearer token is printed as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAdminCreate(cmd, req)
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "display name")
	create.Flags().StringVar(&req.Email, "email", "", "login email")
	create.Flags().StringVar(&req.Password, "password", "", "login password")
	create.Flags().StringVar(&req.OfficeID, "office", "", "office id (optional)")
	for _, f := range []string{"name", "email", "password"} {
		_ = create.MarkFlagRequired(f)
	}

	cmd.AddCommand(create)
	return cmd
}

func (a *app) runAdminCreate(cmd *cobra.Command, req adminRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	b, _, err := a.backend(ctx)
	if err != nil {
		return err
	}
	user, err := b.Auth.CreateAdmin(ctx, req.Name, req.Email, req.Password, req.OfficeID)
	if err != nil {
		return err
	}

	var token string
	if resp, err := b.Auth.Login(ctx, dto.LoginRequest{Email: req.Email, Password: req.Password}); err != nil {
		a.printWarn("No token issued: %v", err)
	} else {
		token = resp.JWT
	}

	if ok, err := a.printJSON(map[string]string{"userId": user.ID, "email": user.Email, "jwt": token}); ok {
		return err
	}
	a.printSuccess("Administrator created")
	a.printKeyValue("ID", user.ID)
	a.printKeyValue("Email", user.Email)
	if token != "" {
		a.printKeyValue("Token", token)
	}
	return nil
}
