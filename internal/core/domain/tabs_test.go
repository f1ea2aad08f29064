package domain

import (
	"reflect"
	"testing"
)

func TestTabs_OpenActivatesExisting(t *testing.T) {
	var tabs Tabs
	if created := tabs.Open(1); !created {
		t.Error("Open(1) on empty tabs should create")
	}
	tabs.Open(2)
	tabs.Open(3)

	if created := tabs.Open(2); created {
		t.Error("Open(2) should activate the existing tab, not create")
	}
	if got := tabs.Active(); got != 2 {
		t.Errorf("Active() = %d, want 2", got)
	}
	if got := tabs.IDs(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("IDs() = %v, want [1 2 3]", got)
	}
}

func TestTabs_CloseShiftsActiveDown(t *testing.T) {
	var tabs Tabs
	tabs.Open(1)
	tabs.Open(2)
	tabs.Open(3)

	if !tabs.Close(3) {
		t.Fatal("Close(3) should succeed")
	}
	if got := tabs.Active(); got != 2 {
		t.Errorf("Active() after closing the active tab = %d, want 2", got)
	}

	tabs.Open(1)
	if !tabs.Close(1) {
		t.Fatal("Close(1) should succeed")
	}
	if got := tabs.Active(); got != 2 {
		t.Errorf("Active() = %d, want the surviving neighbor 2", got)
	}
}

func TestTabs_LastTabNotClosable(t *testing.T) {
	var tabs Tabs
	tabs.Open(7)
	if tabs.Close(7) {
		t.Error("Close() on the last remaining tab must be refused")
	}
	if got := tabs.Active(); got != 7 {
		t.Errorf("Active() = %d, want 7", got)
	}
}

func TestTabs_Cycling(t *testing.T) {
	var tabs Tabs
	tabs.Open(1)
	tabs.Open(2)
	tabs.Open(3)

	tabs.Next()
	if got := tabs.Active(); got != 1 {
		t.Errorf("Next() from last tab = %d, want wrap to 1", got)
	}
	tabs.Prev()
	if got := tabs.Active(); got != 3 {
		t.Errorf("Prev() = %d, want 3", got)
	}
}
