package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Lifecycle (info)
		"progressive source detected, decoding DC coefficients only (lower quality)": "プログレッシブ画像を検出。DC係数のみデコードします (低画質)",
		"rendered %s in %s":     "%s を %s で描画しました",
		"probing %s":            "%s を確認中",
		"image dimensions: %dx%d": "画像サイズ: %dx%d",

		// Decode internals (debug)
		"decoding image: %s": "画像をデコード中: %s",
		"scale plan: %dx%d -> %dx%d (coarse 1/%d, fine %d/65536)": "スケール計画: %dx%d -> %dx%d (粗 1/%d, 微 %d/65536)",
		"decode complete, render time: %s": "デコード完了。描画時間: %s",

		// Warnings
		"failed to allocate cache buffer, continuing without caching": "キャッシュバッファの確保に失敗。キャッシュなしで続行します",
		"failed to write cache file %s: %v": "キャッシュファイル %s の書き込みに失敗: %v",

		// Errors
		"not enough heap for decoder (%d free, need %d)": "デコーダ用のヒープが不足しています (空き %d, 必要 %d)",
		"failed to open image: %s (%v)":                  "画像を開けませんでした: %s (%v)",
		"failed to open image for dimensions: %s (%v)":   "サイズ取得のため画像を開けませんでした: %s (%v)",
		"unusable source %s: %dx%d (%v)":                 "使用できない画像 %s: %dx%d (%v)",
		"decode failed: %s (%v)":                         "デコードに失敗しました: %s (%v)",
	})
}
