package cmd

import "testing"

func TestCategoriesSubIconFlagDefaults(t *testing.T) {
	addFlag := subAddCmd.Flags().Lookup("icon")
	if addFlag == nil || addFlag.DefValue != "folder" {
		t.Fatalf("sub add --icon default = %v, want folder", addFlag)
	}
	renameFlag := subRenameCmd.Flags().Lookup("icon")
	if renameFlag == nil || renameFlag.DefValue != "" {
		t.Fatalf("sub rename --icon default = %v, want empty", renameFlag)
	}

	// The two commands must not share a backing variable.
	if err := subRenameCmd.Flags().Set("icon", "star"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if subAddIcon != "folder" {
		t.Errorf("sub add icon = %q after setting rename's flag, want folder", subAddIcon)
	}
	if subRenameIcon != "star" {
		t.Errorf("sub rename icon = %q, want star", subRenameIcon)
	}
}
