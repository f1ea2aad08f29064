package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/services"
	"github.com/lokarni/lokarni-cli/pkg/ui"
)

var (
	subAddIcon    string
	subRenameIcon string
)

// categoriesCmd represents the categories command group
var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Short:   "Manage sidebar categories",
	Aliases: []string{"cat"},
	Long: `Inspect and reorganize the category tree. The "General" group and
its "All Assets" and "Favorites" entries are system-owned and cannot be
renamed, deleted or reordered.`,
	RunE: runCategoriesList,
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a category group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := categoryService.Create(getContext(), args[0])
		if err != nil {
			return categoryErr(err)
		}
		fmt.Println(ui.FormatSuccess("Created category " + created.Title))
		return nil
	},
}

var categoriesRenameCmd = &cobra.Command{
	Use:   "rename <title> <new-title>",
	Short: "Rename a category group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := findCategory(args[0])
		if err != nil {
			return err
		}
		updated, err := categoryService.Rename(getContext(), *cat, args[1])
		if err != nil {
			return categoryErr(err)
		}
		fmt.Println(ui.FormatSuccess("Renamed to " + updated.Title))
		return nil
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <title>",
	Short: "Delete a category group and its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := findCategory(args[0])
		if err != nil {
			return err
		}
		if err := categoryService.Delete(getContext(), *cat); err != nil {
			return categoryErr(err)
		}
		fmt.Println(ui.FormatSuccess("Deleted category " + cat.Title))
		return nil
	},
}

var categoriesMoveCmd = &cobra.Command{
	Use:   "move <title> <up|down>",
	Short: "Swap a category group with its neighbor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()
		cats, err := categoryService.List(ctx)
		if err != nil {
			return err
		}
		idx := -1
		for i, c := range cats {
			if c.Title == args[0] {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("no category named %q", args[0])
		}
		dir := 0
		switch args[1] {
		case "up":
			dir = -1
		case "down":
			dir = 1
		default:
			return fmt.Errorf("direction must be up or down, got %q", args[1])
		}
		if err := categoryService.Move(ctx, cats, idx, dir); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Moved " + args[0] + " " + args[1]))
		return nil
	},
}

var categoriesSubCmd = &cobra.Command{
	Use:   "sub",
	Short: "Manage subcategories",
}

var subAddCmd = &cobra.Command{
	Use:   "add <category> <name>",
	Short: "Add a subcategory to a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := findCategory(args[0])
		if err != nil {
			return err
		}
		created, err := categoryService.AddSub(getContext(), *cat, args[1], subAddIcon)
		if err != nil {
			return categoryErr(err)
		}
		fmt.Println(ui.FormatSuccess("Added " + created.Name + " to " + cat.Title))
		return nil
	},
}

var subRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a subcategory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := findSubcategory(args[0])
		if err != nil {
			return err
		}
		icon := sub.Icon
		if cmd.Flags().Changed("icon") {
			icon = subRenameIcon
		}
		updated, err := categoryService.RenameSub(getContext(), *sub, args[1], icon)
		if err != nil {
			return categoryErr(err)
		}
		fmt.Println(ui.FormatSuccess("Renamed to " + updated.Name))
		return nil
	},
}

var subDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a subcategory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := findSubcategory(args[0])
		if err != nil {
			return err
		}
		if err := categoryService.DeleteSub(getContext(), *sub); err != nil {
			return categoryErr(err)
		}
		fmt.Println(ui.FormatSuccess("Deleted " + sub.Name))
		return nil
	},
}

func init() {
	subAddCmd.Flags().StringVar(&subAddIcon, "icon", "folder", "Icon name for the entry")
	subRenameCmd.Flags().StringVar(&subRenameIcon, "icon", "", "New icon name")

	categoriesSubCmd.AddCommand(subAddCmd)
	categoriesSubCmd.AddCommand(subRenameCmd)
	categoriesSubCmd.AddCommand(subDeleteCmd)

	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesRenameCmd)
	categoriesCmd.AddCommand(categoriesDeleteCmd)
	categoriesCmd.AddCommand(categoriesMoveCmd)
	categoriesCmd.AddCommand(categoriesSubCmd)
}

func runCategoriesList(cmd *cobra.Command, args []string) error {
	cats, err := categoryService.List(getContext())
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load categories"))
		return err
	}
	fmt.Println(ui.FormatTitle("Categories"))
	fmt.Println()
	for _, c := range cats {
		title := c.Title
		if c.Protected() {
			title += " " + ui.FormatMuted("(system)")
		}
		fmt.Println(ui.FormatBold(title))
		for _, sub := range c.Subcategories {
			line := "  " + ui.StyleAccent.Render("•") + " " + sub.Name
			if sub.Icon != "" {
				line += " " + ui.FormatMuted("["+sub.Icon+"]")
			}
			fmt.Println(line)
		}
	}
	fmt.Println()
	fmt.Println(ui.FormatMuted("Groups: " + strconv.Itoa(len(cats))))
	return nil
}

// findCategory resolves a group by exact title.
func findCategory(title string) (*domain.Category, error) {
	cats, err := categoryService.List(getContext())
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if cats[i].Title == title {
			return &cats[i], nil
		}
	}
	return nil, fmt.Errorf("no category named %q", title)
}

// findSubcategory resolves a subcategory by exact name across all groups.
func findSubcategory(name string) (*domain.SubCategory, error) {
	cats, err := categoryService.List(getContext())
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		for i := range c.Subcategories {
			if c.Subcategories[i].Name == name {
				return &c.Subcategories[i], nil
			}
		}
	}
	return nil, fmt.Errorf("no subcategory named %q", name)
}

func categoryErr(err error) error {
	if errors.Is(err, services.ErrProtected) {
		fmt.Println(ui.FormatWarning("That entry is system-owned and cannot be changed"))
	}
	return err
}
