package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marudhara-crafts/catalog-sync/internal/core/ports"
	"github.com/marudhara-crafts/catalog-sync/internal/core/service"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Authenticated catalog mutations",
	Long: `Manage the product catalog as the storefront operator.

Every subcommand logs in first, using --password or ADMIN_PASSWORD, runs
the mutation, and resynchronizes the local list before reporting status.`,
}

var adminLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify the admin password against the backend",
	RunE:  runAdminLogin,
}

var adminAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new product",
	RunE:  runAdminAdd,
}

var adminUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update an existing product",
	RunE:  runAdminUpdate,
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminDelete,
}

var (
	flagPassword    string
	flagName        string
	flagPrice       float64
	flagDescription string
	flagImage       string
	flagID          int64
	flagYes         bool
)

func init() {
	adminCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "admin password (defaults to ADMIN_PASSWORD)")

	adminAddCmd.Flags().StringVar(&flagName, "name", "", "product name")
	adminAddCmd.Flags().Float64Var(&flagPrice, "price", 0, "product price")
	adminAddCmd.Flags().StringVar(&flagDescription, "description", "", "product description")
	adminAddCmd.Flags().StringVar(&flagImage, "image", "", "path to the product image file")

	adminUpdateCmd.Flags().Int64Var(&flagID, "id", 0, "product id")
	adminUpdateCmd.Flags().StringVar(&flagName, "name", "", "product name")
	adminUpdateCmd.Flags().Float64Var(&flagPrice, "price", 0, "product price")
	adminUpdateCmd.Flags().StringVar(&flagDescription, "description", "", "product description")
	adminUpdateCmd.Flags().StringVar(&flagImage, "image", "", "path to a replacement image (omit to keep the current one)")

	adminDeleteCmd.Flags().BoolVar(&flagYes, "yes", false, "skip the confirmation prompt")

	adminCmd.AddCommand(adminLoginCmd)
	adminCmd.AddCommand(adminAddCmd)
	adminCmd.AddCommand(adminUpdateCmd)
	adminCmd.AddCommand(adminDeleteCmd)
}

// login authenticates the app's session gate, preferring the --password
// flag over the configured ADMIN_PASSWORD.
func login(ctx context.Context, a *app) error {
	password := flagPassword
	if password == "" {
		password = a.cfg.AdminPassword
	}
	if password == "" {
		return errors.New("no admin password: pass --password or set ADMIN_PASSWORD")
	}
	if err := a.gate.Login(ctx, password); err != nil {
		fmt.Println("Wrong password")
		return err
	}
	fmt.Println("Logged in")
	return nil
}

func runAdminLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	if err := login(ctx, a); err != nil {
		return err
	}
	// Mirror the admin page: drop the session again after the check.
	_ = a.gate.Logout(ctx)
	fmt.Println("Logged out")
	return nil
}

func runAdminAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	if err := login(ctx, a); err != nil {
		return err
	}

	input := ports.CreateProductInput{Name: flagName}
	if cmd.Flags().Changed("price") {
		price := flagPrice
		input.Price = &price
	}
	if cmd.Flags().Changed("description") {
		desc := flagDescription
		input.Description = &desc
	}
	if flagImage != "" {
		upload, err := readImageFile(flagImage)
		if err != nil {
			return err
		}
		input.Image = upload
	}

	_, err = a.admin.Create(ctx, input)
	fmt.Println(service.StatusMessage(service.OpCreate, err))
	return err
}

func runAdminUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	if err := login(ctx, a); err != nil {
		return err
	}

	input := ports.UpdateProductInput{Name: flagName}
	if cmd.Flags().Changed("price") {
		price := flagPrice
		input.Price = &price
	}
	if cmd.Flags().Changed("description") {
		desc := flagDescription
		input.Description = &desc
	}
	if flagImage != "" {
		upload, err := readImageFile(flagImage)
		if err != nil {
			return err
		}
		input.Image = upload
	}

	_, err = a.admin.Update(ctx, flagID, input)
	fmt.Println(service.StatusMessage(service.OpUpdate, err))
	return err
}

func runAdminDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	if !flagYes && !confirm(fmt.Sprintf("Delete product %d?", id)) {
		fmt.Println("Aborted.")
		return nil
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	if err := login(ctx, a); err != nil {
		return err
	}

	err = a.admin.Delete(ctx, id)
	fmt.Println(service.StatusMessage(service.OpDelete, err))
	return err
}

// confirm asks on stdin; only an explicit yes proceeds.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func readImageFile(path string) (*ports.ImageUpload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	name := path
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		name = path[idx+1:]
	}
	return &ports.ImageUpload{Filename: name, Content: content}, nil
}
