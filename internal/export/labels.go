package export

import "labstock/internal/inventory"

type headerSet struct {
	inventory   []any
	audit       []any
	procurement []any
}

var headers = map[string]headerSet{
	LangVietnamese: {
		inventory: []any{
			"Mã", "Tên Hóa Chất", "Công Thức", "Số CAS", "Phân Loại", "Số Lô", "Lô NSX",
			"Số Lượng", "Đơn Vị", "Ngày Nhập", "Hạn Dùng NSX", "Ngày Mở", "Hạn Dùng Thực Tế",
			"Trạng Thái", "Vị Trí", "Nhà Cung Cấp",
		},
		audit: []any{"Thời Gian", "Người Thực Hiện", "Hành Động", "Hóa Chất", "Số Lô", "Số Lượng", "Đơn Vị", "Chi Tiết"},
		procurement: []any{
			"Tên Hóa Chất", "Công Thức", "Số CAS", "Tồn Hiện Tại", "Đơn Vị", "Định Mức Tối Thiểu",
			"Lượng Cần Mua (Gợi ý)", "Vị Trí", "Nhà Cung Cấp",
		},
	},
	LangEnglish: {
		inventory: []any{
			"Code", "Chemical", "Formula", "CAS No.", "Category", "Lot No.", "Mfg Lot No.",
			"Quantity", "Unit", "Entry Date", "Mfg Expiry", "Opened", "Effective Expiry",
			"Status", "Location", "Supplier",
		},
		audit: []any{"Time", "User", "Action", "Chemical", "Lot No.", "Amount", "Unit", "Details"},
		procurement: []any{
			"Chemical", "Formula", "CAS No.", "Current Stock", "Unit", "Minimum Threshold",
			"Suggested Purchase", "Location", "Supplier",
		},
	},
}

var statusLabels = map[inventory.LotStatus]string{
	inventory.StatusReserved: "Chưa mở",
	inventory.StatusInUse:    "Đang dùng",
	inventory.StatusConsumed: "Đã hết",
	inventory.StatusExpired:  "Hết hạn",
	inventory.StatusDisposed: "Đã hủy",
}

func statusLabel(lang string, status inventory.LotStatus) string {
	if lang == LangVietnamese {
		if label, ok := statusLabels[status]; ok {
			return label
		}
	}
	return string(status)
}
